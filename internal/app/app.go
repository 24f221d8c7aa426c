// Package app contains the root application model: a playground that
// anchors floating widgets (menus, tooltips, dialogs, context menus)
// to marked regions of the base view.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	"scrim/internal/cachemanager"
	"scrim/internal/config"
	"scrim/internal/floating"
	"scrim/internal/host"
	"scrim/internal/keys"
	"scrim/internal/log"
	"scrim/internal/portal"
	"scrim/internal/pubsub"
	"scrim/internal/ui/overlay"
	"scrim/internal/ui/styles"
	"scrim/internal/watcher"
)

// Zone ids for the anchor regions marked in the base view.
const (
	zoneFileTrigger = "trigger.file"
	zoneStatusHint  = "trigger.status"
)

// logOverlayLines caps the debug overlay's scrollback.
const logOverlayLines = 8

type configReloadedMsg struct {
	cfg config.Config
}

// repositionMsg triggers a repaint after auto-update ticks have
// settled following a resize.
type repositionMsg struct{}

// Model is the root application state.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg        config.Config
	configPath string
	keymap     keys.KeyMap

	registry    *portal.Registry[*panel]
	coordinator *floating.Coordinator
	layout      *teaLayout
	zoneBounds  *cachemanager.ReadThroughCache[floating.Rect]

	containerHost *host.Host[*panel]
	overlayHost   *host.Host[*panel]
	changeCh      <-chan pubsub.Event[portal.Change]

	width  int
	height int
	ready  bool

	defaultOpts floating.Options

	// Widget state. Panels persist across open/close cycles so the
	// coordinator can reuse their identity.
	menuID    string
	menuPanel *panel
	menuSub   *floating.Subscription
	menuOpen  bool
	menuSel   int

	subID    string
	subPanel *panel
	subSub   *floating.Subscription
	subOpen  bool
	subSel   int

	tooltipID    string
	tooltipPanel *panel
	tooltipSub   *floating.Subscription
	tooltipOpen  bool

	helpID    string
	helpPanel *panel
	helpOpen  bool

	ctxID    string
	ctxPanel *panel
	ctxOpen  bool

	statusMsg string

	// Debug log overlay, fed by the logger's broker.
	logListener *log.LogListener
	logLines    []string
	showLogs    bool

	watcherHandle *watcher.Watcher
	watcherCh     <-chan struct{}
}

// New creates the playground model. The tracer may be nil when
// tracing is disabled; debug enables the log overlay (Ctrl+X toggle).
func New(cfg config.Config, configPath string, tracer trace.Tracer, debug bool) Model {
	ctx, cancel := context.WithCancel(context.Background())

	zones := cachemanager.NewInMemoryCacheManager[floating.Rect]("zone-bounds", time.Minute, 5*time.Minute)
	zoneBounds := cachemanager.NewReadThroughCache(zones, measureZone, false)
	layout := newTeaLayout(zones)

	var opts []floating.Option
	if tracer != nil {
		opts = append(opts, floating.WithTracer(tracer))
	}
	coordinator := floating.New(layout, opts...)

	registry := portal.New[*panel]()
	containerHost := host.New(registry, portal.CategoryContainer, nil)
	overlayHost := host.New(registry, portal.CategoryOverlay, nil)
	containerHost.Start(ctx)
	overlayHost.Start(ctx)

	// Config hot-reload. The app works fine without the watcher.
	var (
		watcherHandle *watcher.Watcher
		watcherCh     <-chan struct{}
	)
	if configPath != "" {
		if w, err := watcher.New(watcher.DefaultConfig(configPath)); err == nil {
			if ch, err := w.Start(); err == nil {
				watcherHandle = w
				watcherCh = ch
			} else {
				_ = w.Stop()
			}
		}
	}

	styles.Apply(cfg.Theme)

	var logListener *log.LogListener
	if debug {
		logListener = log.NewListener(ctx)
	}

	m := Model{
		ctx:           ctx,
		cancel:        cancel,
		cfg:           cfg,
		configPath:    configPath,
		keymap:        keys.DefaultKeyMap(),
		registry:      registry,
		coordinator:   coordinator,
		layout:        layout,
		zoneBounds:    zoneBounds,
		containerHost: containerHost,
		overlayHost:   overlayHost,
		changeCh:      registry.Subscribe(ctx),
		defaultOpts:   optionsFromConfig(cfg.Floating),
		menuID:        portal.NewID("menu"),
		menuPanel:     newPanel("menu", styles.Panel),
		subID:         portal.NewID("submenu"),
		subPanel:      newPanel("submenu", styles.Panel),
		tooltipID:     portal.NewID("tooltip"),
		tooltipPanel:  newPanel("tooltip", styles.Tooltip),
		helpID:        portal.NewID("help"),
		helpPanel:     newPanel("help", styles.Dialog),
		ctxID:         portal.NewID("context"),
		ctxPanel:      newPanel("context", styles.Panel),
		logListener:   logListener,
		watcherHandle: watcherHandle,
		watcherCh:     watcherCh,
	}
	return m
}

func optionsFromConfig(fc config.FloatingConfig) floating.Options {
	opts := floating.DefaultOptions()
	if p, err := floating.ParsePlacement(fc.Placement); err == nil {
		opts.Placement = p
	} else {
		log.Warn(log.CatConfig, "invalid placement, using default", "placement", fc.Placement)
	}
	opts.Offset = fc.Offset
	opts.Padding = fc.Padding
	opts.Flip = fc.Flip
	opts.Shift = fc.Shift
	return opts
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listenChanges()}
	if cmd := m.listenConfig(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

func (m Model) listenChanges() tea.Cmd {
	return pubsub.ListenCmd(m.ctx, m.changeCh)
}

func (m Model) listenConfig() tea.Cmd {
	if m.watcherCh == nil {
		return nil
	}
	ctx, ch, path := m.ctx, m.watcherCh, m.configPath
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			return configReloadedMsg{cfg: config.Load(path)}
		}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout.SetSize(msg.Width, msg.Height)
		// Auto-update ticks land asynchronously; schedule one repaint
		// after they settle.
		return m, tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg {
			return repositionMsg{}
		})

	case repositionMsg:
		return m, nil

	case pubsub.Event[portal.Change]:
		// Host snapshots are already refreshed; this event only
		// triggers the repaint and re-arms the listener.
		return m, m.listenChanges()

	case log.LogEvent:
		m.logLines = append(m.logLines, strings.TrimRight(msg.Payload, "\n"))
		if len(m.logLines) > logOverlayLines {
			m.logLines = m.logLines[len(m.logLines)-logOverlayLines:]
		}
		var cmd tea.Cmd
		if m.logListener != nil {
			cmd = m.logListener.Listen()
		}
		return m, cmd

	case configReloadedMsg:
		m.cfg = msg.cfg
		m.defaultOpts = optionsFromConfig(msg.cfg.Floating)
		styles.Apply(msg.cfg.Theme)
		log.Info(log.CatConfig, "config reloaded", "path", m.configPath)
		return m, m.listenConfig()

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Escape):
		m = m.closeTopmost()

	case key.Matches(msg, m.keymap.FileMenu):
		if m.menuOpen {
			m = m.closeMenu()
		} else {
			m = m.openMenu()
		}

	case key.Matches(msg, m.keymap.Right):
		if m.menuOpen && !m.subOpen && fileMenuItems[m.menuSel] == "Open Recent" {
			m = m.openSubmenu()
		}

	case key.Matches(msg, m.keymap.Up):
		m = m.moveSelection(-1)

	case key.Matches(msg, m.keymap.Down):
		m = m.moveSelection(1)

	case key.Matches(msg, m.keymap.Enter):
		m = m.selectItem()

	case key.Matches(msg, m.keymap.Tooltip):
		if m.tooltipOpen {
			m = m.closeTooltip()
		} else {
			m = m.openTooltip()
		}

	case key.Matches(msg, m.keymap.Help):
		if m.helpOpen {
			m = m.closeHelp()
		} else {
			m = m.openHelp()
		}

	case key.Matches(msg, m.keymap.Placement):
		m = m.cyclePlacement()

	case key.Matches(msg, m.keymap.Logs):
		m.showLogs = !m.showLogs
	}
	return m, nil
}

// placementCycle is the rotation order for the default placement key.
var placementCycle = []string{"bottom-start", "top-start", "right-center", "left-center"}

// cyclePlacement rotates the default placement and persists it, so the
// choice survives restarts. Open widgets pick it up on next open.
func (m Model) cyclePlacement() Model {
	next := placementCycle[0]
	for i, p := range placementCycle {
		if p == m.cfg.Floating.Placement {
			next = placementCycle[(i+1)%len(placementCycle)]
			break
		}
	}
	m.cfg.Floating.Placement = next
	m.defaultOpts = optionsFromConfig(m.cfg.Floating)
	m.statusMsg = "placement: " + next

	if m.configPath != "" {
		if err := config.SaveFloating(m.configPath, m.cfg.Floating); err != nil {
			log.ErrorErr(log.CatConfig, "persist floating defaults failed", err)
		}
	}
	return m
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonRight:
		m = m.openContextMenu(msg.X, msg.Y)
	case tea.MouseButtonLeft:
		if m.ctxOpen {
			m = m.closeContextMenu()
		}
		if z := zone.Get(zoneFileTrigger); z != nil && z.InBounds(msg) {
			if m.menuOpen {
				m = m.closeMenu()
			} else {
				m = m.openMenu()
			}
		}
	}
	return m, nil
}

// closeTopmost dismisses widgets in reverse stacking order, one per
// escape press.
func (m Model) closeTopmost() Model {
	switch {
	case m.ctxOpen:
		return m.closeContextMenu()
	case m.helpOpen:
		return m.closeHelp()
	case m.subOpen:
		return m.closeSubmenu()
	case m.tooltipOpen:
		return m.closeTooltip()
	case m.menuOpen:
		return m.closeMenu()
	}
	return m
}

func (m Model) openMenu() Model {
	m.menuSel = 0
	m.menuPanel.SetContent(renderMenu(fileMenuItems, m.menuSel))

	anchor := zoneAnchor{id: zoneFileTrigger, bounds: m.zoneBounds}
	sub, err := m.coordinator.ShowFloating(m.menuPanel, anchor, m.defaultOpts)
	if err != nil {
		log.ErrorErr(log.CatUI, "open menu failed", err)
		return m
	}
	m.menuSub = sub
	if err := m.registry.Register(m.menuID, portal.CategoryOverlay, m.menuPanel); err != nil {
		log.ErrorErr(log.CatPortal, "register menu failed", err)
	}
	m.menuOpen = true
	return m
}

func (m Model) closeMenu() Model {
	if m.subOpen {
		m = m.closeSubmenu()
	}
	if m.menuSub != nil {
		m.menuSub.Dispose()
		m.menuSub = nil
	}
	m.coordinator.HideFloating(m.menuPanel)
	m.registry.Unregister(m.menuID)
	m.menuOpen = false
	return m
}

// openSubmenu nests the recent-files list under the menu entry, so
// the overlay host renders both from a single registration.
func (m Model) openSubmenu() Model {
	m.subSel = 0
	m.subPanel.SetContent(renderMenu(recentItems, m.subSel))

	opts := m.defaultOpts
	opts.Placement = floating.Placement{Side: floating.SideRight, Align: floating.AlignStart}
	sub, err := m.coordinator.ShowFloating(m.subPanel, m.menuPanel, opts)
	if err != nil {
		log.ErrorErr(log.CatUI, "open submenu failed", err)
		return m
	}
	m.subSub = sub
	if err := m.registry.AppendChild(m.menuID, m.subID, m.subPanel); err != nil {
		log.ErrorErr(log.CatPortal, "append submenu failed", err)
	}
	m.subOpen = true
	return m
}

func (m Model) closeSubmenu() Model {
	if m.subSub != nil {
		m.subSub.Dispose()
		m.subSub = nil
	}
	m.coordinator.HideFloating(m.subPanel)
	if err := m.registry.RemoveChild(m.menuID, m.subID); err != nil {
		log.ErrorErr(log.CatPortal, "remove submenu failed", err)
	}
	m.subOpen = false
	return m
}

func (m Model) moveSelection(delta int) Model {
	switch {
	case m.subOpen:
		m.subSel = wrapIndex(m.subSel+delta, len(recentItems))
		m.subPanel.SetContent(renderMenu(recentItems, m.subSel))
		if err := m.registry.Refresh(m.menuID); err != nil {
			log.ErrorErr(log.CatPortal, "refresh menu failed", err)
		}
	case m.menuOpen:
		m.menuSel = wrapIndex(m.menuSel+delta, len(fileMenuItems))
		m.menuPanel.SetContent(renderMenu(fileMenuItems, m.menuSel))
		if err := m.registry.Refresh(m.menuID); err != nil {
			log.ErrorErr(log.CatPortal, "refresh menu failed", err)
		}
	}
	return m
}

func wrapIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

func (m Model) selectItem() Model {
	switch {
	case m.subOpen:
		m.statusMsg = "opened " + recentItems[m.subSel]
		return m.closeMenu()
	case m.menuOpen:
		m.statusMsg = fileMenuItems[m.menuSel]
		return m.closeMenu()
	}
	return m
}

func (m Model) openTooltip() Model {
	m.tooltipPanel.SetContent(renderTooltip(
		fmt.Sprintf("%d overlay entries registered. Tooltips flip to stay inside the viewport.", m.registry.Len()),
	))

	opts := m.defaultOpts
	opts.Placement = floating.Placement{Side: floating.SideTop, Align: floating.AlignCenter}
	if opts.Offset < 1 {
		opts.Offset = 1 // leave a row for the arrow
	}
	anchor := zoneAnchor{id: zoneStatusHint, bounds: m.zoneBounds}
	sub, err := m.coordinator.ShowFloating(m.tooltipPanel, anchor, opts)
	if err != nil {
		log.ErrorErr(log.CatUI, "open tooltip failed", err)
		return m
	}
	m.tooltipSub = sub
	if err := m.registry.Register(m.tooltipID, portal.CategoryOverlay, m.tooltipPanel); err != nil {
		log.ErrorErr(log.CatPortal, "register tooltip failed", err)
	}
	m.tooltipOpen = true
	return m
}

func (m Model) closeTooltip() Model {
	if m.tooltipSub != nil {
		m.tooltipSub.Dispose()
		m.tooltipSub = nil
	}
	m.coordinator.HideFloating(m.tooltipPanel)
	m.registry.Unregister(m.tooltipID)
	m.tooltipOpen = false
	return m
}

func (m Model) openHelp() Model {
	width := m.width - 10
	if width > 64 {
		width = 64
	}
	if width < 20 {
		width = 20
	}
	m.helpPanel.SetContent(renderHelp(width))
	m.helpPanel.SetVisible(true)
	if err := m.registry.Register(m.helpID, portal.CategoryContainer, m.helpPanel); err != nil {
		log.ErrorErr(log.CatPortal, "register help failed", err)
	}
	m.helpOpen = true
	return m
}

func (m Model) closeHelp() Model {
	m.helpPanel.SetVisible(false)
	m.registry.Unregister(m.helpID)
	m.helpOpen = false
	return m
}

func (m Model) openContextMenu(x, y int) Model {
	m.ctxPanel.SetContent(renderMenu(contextMenuItems, -1))
	if _, err := m.coordinator.ApplyCoordinatePosition(
		m.ctxPanel, float64(x), float64(y), m.cfg.Floating.Padding, true,
	); err != nil {
		log.ErrorErr(log.CatUI, "open context menu failed", err)
		return m
	}
	if err := m.registry.Register(m.ctxID, portal.CategoryOverlay, m.ctxPanel); err != nil {
		log.ErrorErr(log.CatPortal, "register context menu failed", err)
	}
	m.ctxOpen = true
	return m
}

func (m Model) closeContextMenu() Model {
	m.coordinator.HideFloating(m.ctxPanel)
	m.registry.Unregister(m.ctxID)
	m.ctxOpen = false
	return m
}

func (m Model) shutdown() {
	if m.watcherHandle != nil {
		_ = m.watcherHandle.Stop()
	}
	m.containerHost.Stop()
	m.overlayHost.Stop()
	m.cancel()
	m.registry.Close()
	m.layout.Close()
}

// View implements tea.Model. The base view is scanned for zone marks
// first, then floating tiers are composited over it: containers
// centered, overlays at their computed coordinates.
func (m Model) View() string {
	if !m.ready {
		return "measuring terminal..."
	}

	view := zone.Scan(m.renderBase())

	for _, entry := range m.containerHost.Snapshot() {
		for _, p := range entry.Effective() {
			if !p.Visible() {
				continue
			}
			view = overlay.Center(view, p.View(), m.width, m.height)
		}
	}

	for _, entry := range m.overlayHost.Snapshot() {
		for _, p := range entry.Effective() {
			if !p.Visible() {
				continue
			}
			pos, ok := p.Position()
			if !ok {
				continue
			}
			view = overlay.Composite(view, p.View(), int(pos.X), int(pos.Y), m.width, m.height)
			if p == m.tooltipPanel {
				view = m.paintTooltipArrow(view, p, pos)
			}
		}
	}

	if m.showLogs && len(m.logLines) > 0 {
		panel := styles.Panel.Render(strings.Join(m.logLines, "\n"))
		view = overlay.Composite(view, panel, 0, m.height-lipgloss.Height(panel), m.width, m.height)
	}
	return view
}

func (m Model) renderBase() string {
	trigger := styles.Trigger
	if m.menuOpen {
		trigger = styles.TriggerActive
	}
	toolbar := styles.Toolbar.Width(m.width).Render(
		zone.Mark(zoneFileTrigger, trigger.Render("File")) +
			styles.Trigger.Render("Edit") +
			styles.Trigger.Render("View"),
	)

	statusHeight := 0
	var status string
	if m.cfg.UI.ShowStatusBar {
		statusHeight = 1
		left := zone.Mark(zoneStatusHint, "[status]")
		right := m.statusMsg
		if right == "" {
			right = fmt.Sprintf("%d registered", m.registry.Len())
		}
		status = styles.StatusBar.Width(m.width).Render(left + " " + right)
	}

	bodyHeight := m.height - lipgloss.Height(toolbar) - statusHeight
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center,
		styles.Toolbar.Render("press ? for help, right-click for a context menu"))

	if status == "" {
		return lipgloss.JoinVertical(lipgloss.Left, toolbar, body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, toolbar, body, status)
}

// paintTooltipArrow draws the indicator glyph in the gap row between
// the tooltip and its anchor, aimed at the anchor's center.
func (m Model) paintTooltipArrow(view string, p *panel, pos floating.Position) string {
	ref, err := (zoneAnchor{id: zoneStatusHint, bounds: m.zoneBounds}).Bounds()
	if err != nil {
		return view
	}
	fl, err := p.Bounds()
	if err != nil {
		return view
	}
	off := floating.ArrowOffset(ref, fl, pos.Placement.Side, 1, 1)

	var x, y int
	var glyph string
	switch pos.Placement.Side {
	case floating.SideTop:
		glyph, x, y = "▼", int(pos.X+off), int(pos.Y+fl.Height)
	case floating.SideBottom:
		glyph, x, y = "▲", int(pos.X+off), int(pos.Y)-1
	case floating.SideLeft:
		glyph, x, y = "▶", int(pos.X+fl.Width), int(pos.Y+off)
	case floating.SideRight:
		glyph, x, y = "◀", int(pos.X)-1, int(pos.Y+off)
	default:
		return view
	}
	if x < 0 || y < 0 {
		return view
	}
	return overlay.Composite(view, glyph, x, y, m.width, m.height)
}
