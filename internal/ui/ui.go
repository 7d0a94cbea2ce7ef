package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexalbu001/ecs-graphql/internal/aws"
	"github.com/alexalbu001/ecs-graphql/pkg"
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

// FetchFunc re-runs the service query the browser was opened with.
type FetchFunc func(ctx context.Context) ([]pkg.ServiceRecord, error)

// MetricsFunc fetches utilization for one service.
type MetricsFunc func(ctx context.Context, cluster, serviceName string) (*aws.ServiceMetrics, error)

type ServiceUI struct {
	app              *tview.Application
	ctx              context.Context
	logger           *zap.Logger
	fetch            FetchFunc
	metrics          MetricsFunc
	list             *tview.List
	searchInput      *tview.InputField
	currentServices  []pkg.ServiceRecord
	filteredServices []pkg.ServiceRecord
	layout           *tview.Flex
	header           *tview.TextView
	status           *tview.TextView
}

func NewServiceUI(app *tview.Application, ctx context.Context, logger *zap.Logger, fetch FetchFunc, metrics MetricsFunc, initialServices []pkg.ServiceRecord) *ServiceUI {
	s := &ServiceUI{
		app:              app,
		ctx:              ctx,
		logger:           logger,
		fetch:            fetch,
		metrics:          metrics,
		list:             tview.NewList(),
		searchInput:      tview.NewInputField().SetLabel("/ "),
		currentServices:  initialServices,
		filteredServices: initialServices,
		header:           tview.NewTextView().SetTextAlign(tview.AlignLeft),
		status:           tview.NewTextView().SetTextAlign(tview.AlignRight).SetDynamicColors(true),
	}
	s.layout = s.createLayout()
	return s
}

func (s *ServiceUI) updateList() {
	s.list.Clear()
	for i, service := range s.filteredServices {
		index := i
		status := awssdk.ToString(service.Status)
		statusColor := "[white]"
		switch strings.ToLower(status) {
		case "active":
			statusColor = "[green]"
		case "draining":
			statusColor = "[yellow]"
		case "inactive":
			statusColor = "[red]"
		}
		s.list.AddItem(
			fmt.Sprintf("%s (Running: %d, Desired: %d, Pending: %d) - Status: %s%s[-]",
				service.Name(), service.RunningCount, service.DesiredCount, service.PendingCount, statusColor, status),
			"", 0, func() {
				s.showServiceDetails(s.filteredServices[index])
			})
	}
	s.updateHeader()
}

func (s *ServiceUI) updateHeader() {
	s.header.Clear()
	cluster := ""
	if len(s.currentServices) > 0 {
		cluster = s.currentServices[0].ClusterName
	}
	fmt.Fprintf(s.header, "Cluster: %s | Total Services: %d", cluster, len(s.currentServices))
}

func (s *ServiceUI) setStatus(text string) {
	s.status.Clear()
	fmt.Fprint(s.status, text)
}

func (s *ServiceUI) filterServices(query string) {
	if query == "" {
		s.filteredServices = s.currentServices
	} else {
		s.filteredServices = []pkg.ServiceRecord{}
		for _, service := range s.currentServices {
			if strings.Contains(strings.ToLower(service.Name()), strings.ToLower(query)) {
				s.filteredServices = append(s.filteredServices, service)
			}
		}
	}
	s.updateList()
}

// applyServices replaces the displayed services and re-applies the current search.
func (s *ServiceUI) applyServices(services []pkg.ServiceRecord) {
	s.currentServices = services
	s.filterServices(s.searchInput.GetText())
	s.setStatus(fmt.Sprintf("[green]updated %s[-]", time.Now().Format(time.Kitchen)))
}

func (s *ServiceUI) setupSearchInput() {
	s.searchInput.
		SetChangedFunc(func(text string) {
			s.filterServices(text)
		}).
		SetFieldBackgroundColor(tcell.GetColor("#000000"))

	s.searchInput.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc:
			s.searchInput.SetText("")
			s.filterServices("")
			s.app.SetFocus(s.list)
			return nil
		case tcell.KeyEnter, tcell.KeyDown:
			if s.list.GetItemCount() > 0 {
				s.app.SetFocus(s.list)
			}
			return nil
		}
		return event
	})
}

func (s *ServiceUI) setupListInputCapture() {
	s.list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyRune:
			switch event.Rune() {
			case 'r':
				go s.refresh()
				return nil
			case 'q':
				s.app.Stop()
				return nil
			case '/':
				s.app.SetFocus(s.searchInput)
				return nil
			}
		case tcell.KeyUp:
			if s.list.GetCurrentItem() == 0 {
				s.app.SetFocus(s.searchInput)
				return nil
			}
		}
		return event
	})
}

// refresh re-runs the query; failures keep the last good list on screen.
func (s *ServiceUI) refresh() {
	services, err := s.fetch(s.ctx)
	if err != nil {
		s.logger.Error("refreshing services failed", zap.Error(err))
		s.app.QueueUpdateDraw(func() {
			s.setStatus(fmt.Sprintf("[red]refresh failed: %v[-]", err))
		})
		return
	}
	s.app.QueueUpdateDraw(func() {
		s.applyServices(services)
	})
}

func (s *ServiceUI) startPolling(interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.refresh()
			}
		}
	}()
}

func (s *ServiceUI) createLayout() *tview.Flex {
	legend := tview.NewTextView().
		SetText("[yellow]Enter[-] - Details | [green]r[-] - Refresh | [#69359C]/[-] - Search | [red]q[-] - Quit").
		SetTextColor(tcell.ColorWhite).
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	listFrame := tview.NewFrame(s.list).
		SetBorders(0, 0, 0, 0, 0, 0)

	topBar := tview.NewFlex().
		AddItem(s.header, 0, 1, false).
		AddItem(s.status, 0, 1, false)

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(topBar, 1, 1, false).
		AddItem(s.searchInput, 1, 1, false).
		AddItem(listFrame, 0, 1, true).
		AddItem(legend, 1, 1, false)
}

// DisplayServices builds the browser and makes it the root of app. Services are refreshed every refreshInterval.
func DisplayServices(app *tview.Application, ctx context.Context, logger *zap.Logger, fetch FetchFunc, metrics MetricsFunc, initialServices []pkg.ServiceRecord, refreshInterval time.Duration) {
	serviceUI := NewServiceUI(app, ctx, logger, fetch, metrics, initialServices)

	serviceUI.updateList()
	serviceUI.setupSearchInput()
	serviceUI.setupListInputCapture()
	serviceUI.startPolling(refreshInterval)

	app.SetRoot(serviceUI.layout, true)
	app.SetFocus(serviceUI.list)
}

// showServiceDetails opens a modal describing service; utilization is filled in once CloudWatch answers.
func (s *ServiceUI) showServiceDetails(service pkg.ServiceRecord) {
	details := describeService(service)
	modal := tview.NewModal().
		SetText(details + "\n\nCPU: loading... | Memory: loading...").
		AddButtons([]string{"Close"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			s.app.SetRoot(s.layout, true)
			s.app.SetFocus(s.list)
		})

	s.app.SetRoot(modal, false)

	if s.metrics == nil {
		modal.SetText(details)
		return
	}

	go func() {
		m, err := s.metrics(s.ctx, service.ClusterName, service.Name())
		s.app.QueueUpdateDraw(func() {
			if err != nil {
				s.logger.Warn("fetching service metrics failed", zap.String("service", service.Name()), zap.Error(err))
				modal.SetText(details + "\n\nUtilization unavailable")
				return
			}
			modal.SetText(fmt.Sprintf("%s\n\nCPU: %.1f%% | Memory: %.1f%%", details, m.CPUUtilization, m.MemoryUtilization))
		})
	}()
}

func describeService(service pkg.ServiceRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Service: %s\n", service.Name())
	fmt.Fprintf(&b, "Cluster: %s\n", service.ClusterName)
	fmt.Fprintf(&b, "Status: %s\n", awssdk.ToString(service.Status))
	fmt.Fprintf(&b, "Task definition: %s\n", awssdk.ToString(service.TaskDefinition))
	fmt.Fprintf(&b, "Running/Desired/Pending: %d/%d/%d\n", service.RunningCount, service.DesiredCount, service.PendingCount)
	for _, lb := range service.LoadBalancers {
		fmt.Fprintf(&b, "Load balancer: %s -> %s:%d\n",
			awssdk.ToString(lb.TargetGroupArn), awssdk.ToString(lb.ContainerName), awssdk.ToInt32(lb.ContainerPort))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
