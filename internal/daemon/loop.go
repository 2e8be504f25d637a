package daemon

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/config"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/geometry"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/ipc"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/persist"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/platform"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/wlog"
)

// eventQueueDepth is the bounded MPSC channel depth spec.md section
// 4.E specifies for the event loop's producers.
const eventQueueDepth = 100

// animationTickInterval is the fixed cadence of the animation timer.
const animationTickInterval = 16 * time.Millisecond

// Daemon is the single-writer event loop core: one State, one
// Platform, and the subscriptions and timers the startup sequence
// (spec.md section 4.E) installs around them.
type Daemon struct {
	State    *State
	Platform platform.Platform
	Log      *wlog.Logger

	events chan Event

	windowSub platform.Subscription
	mouseSub  platform.Subscription
	hotkeySub platform.Subscription
	gestureSub platform.Subscription

	animTicker *time.Ticker
	animStop   chan struct{}

	snapHintTimer     *time.Timer
	focusFollowsTimer *time.Timer
	focusFollowsGen   uint64

	stopRequested bool
}

// NewDaemon wires a Daemon around an already-loaded config and a
// concrete platform implementation. Start must be called before Run.
func NewDaemon(plat platform.Platform, cfg config.Config) *Daemon {
	state, warnings := NewState(cfg)
	d := &Daemon{
		State:    state,
		Platform: plat,
		Log:      wlog.New("daemon"),
		events:   make(chan Event, eventQueueDepth),
	}
	for _, w := range warnings {
		d.Log.Warnf("config: %s: %s", w.Field, w.Message)
	}
	return d
}

// Start runs spec.md section 4.E's startup sequence steps 1 and 5-9
// (steps 2 and 4 — config load and the IPC rendezvous check — happen
// in cmd/openniri before NewDaemon, and so does step 3's panic trap,
// runTrapped; the IPC server and signal handling of step 9 are also
// started there).
func (d *Daemon) Start() error {
	d.Log.SetLevel(wlog.ParseLevel(d.State.Config.Behavior.LogLevel))

	if err := d.Platform.SetHighDPIAwareness(); err != nil {
		d.Log.Warnf("set high-dpi awareness: %v", err)
	}

	if err := d.enumerateMonitors(); err != nil {
		return fmt.Errorf("daemon: enumerate monitors: %w", err)
	}
	d.restorePersistedState()
	if err := d.enumerateInitialWindows(); err != nil {
		d.Log.Warnf("enumerate initial windows: %v", err)
	}

	if err := d.installForwarders(); err != nil {
		return fmt.Errorf("daemon: install forwarders: %w", err)
	}

	d.Log.Infof("openniri daemon %s started, run %s, %d monitor(s)", Version, d.State.RunID, len(d.State.Monitors))
	return nil
}

// enumerateMonitors implements startup steps 5 and 6: enumerate (or
// fall back to one virtual monitor), create one empty workspace per
// monitor, and focus the primary.
func (d *Daemon) enumerateMonitors() error {
	mons, err := d.Platform.EnumerateMonitors()
	if err != nil {
		return err
	}
	if len(mons) == 0 {
		mons = []platform.MonitorInfo{fallbackMonitor()}
	}
	primaryID, _ := newPrimary(mons)
	for _, m := range mons {
		d.State.Monitors[m.ID] = m
		d.State.EnsureWorkspace(m.ID)
	}
	d.State.FocusedMonitor = primaryID
	return nil
}

// restorePersistedState implements startup step 7: load the state
// file and restore column shape, scroll offset, and focused monitor
// before any window is enumerated, matching spec.md's "window ids from
// the previous session are invalid" note — only shape survives, never
// membership.
func (d *Daemon) restorePersistedState() {
	snap, err := persist.Load()
	if err != nil {
		d.Log.Warnf("load persisted state: %v", err)
		return
	}
	byName := snap.ByDeviceName()
	for monitorID, m := range d.State.Monitors {
		wsSnap, ok := byName[m.DeviceName]
		if !ok {
			continue
		}
		persist.Restore(d.State.Workspaces[monitorID], wsSnap)
	}
	if snap.FocusedMonitorName != "" {
		for monitorID, m := range d.State.Monitors {
			if m.DeviceName == snap.FocusedMonitorName {
				d.State.FocusedMonitor = monitorID
				break
			}
		}
	}
}

// enumerateInitialWindows implements startup step 8.
func (d *Daemon) enumerateInitialWindows() error {
	wins, err := d.Platform.EnumerateWindows()
	if err != nil {
		return err
	}
	for _, w := range wins {
		d.insertWindow(w)
	}
	return nil
}

// installForwarders implements startup step 9's four OS-facing
// forwarders (IPC server and signal trap are cmd/openniri's concern,
// since they need a net.Listener and the process's signal channel).
// Each forwarder goroutine exits when its Subscription is closed and
// its channel is drained and closed by the platform implementation.
func (d *Daemon) installForwarders() error {
	windowSub, windowCh, err := d.Platform.InstallEventHooks()
	if err != nil {
		return fmt.Errorf("install event hooks: %w", err)
	}
	d.windowSub = windowSub
	go d.trapPanics(func() {
		for ev := range windowCh {
			d.pushEvent(Event{Kind: EventWindow, Window: ev})
		}
	})

	mouseSub, mouseCh, err := d.Platform.InstallMouseHook()
	if err != nil {
		return fmt.Errorf("install mouse hook: %w", err)
	}
	d.mouseSub = mouseSub
	go d.trapPanics(func() {
		for ev := range mouseCh {
			if ev.Kind == platform.MouseEnterWindow {
				d.pushEvent(Event{Kind: EventWindow, Window: ev})
			}
		}
	})

	gestureSub, gestureCh, err := d.Platform.RegisterGestures()
	if err != nil {
		return fmt.Errorf("register gestures: %w", err)
	}
	d.gestureSub = gestureSub
	go d.trapPanics(func() {
		for ev := range gestureCh {
			d.pushEvent(Event{Kind: EventGesture, Gesture: ev})
		}
	})

	return d.reregisterHotkeys()
}

// trapPanics recovers a panic raised by fn on the calling goroutine,
// uncloaks every currently-visible window, and re-panics so the
// process still terminates. Go has no global panic hook and recover
// only catches panics on the goroutine that defers it, so spec.md
// section 7's "process-wide trap" is implemented by wrapping every
// long-lived goroutine the daemon owns — the event loop (Run) and
// each OS-event forwarder — individually, rather than once at process
// scope as original_source's std::panic::set_hook does.
func (d *Daemon) trapPanics(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if err := d.Platform.UncloakAllVisibleWindows(); err != nil {
				d.Log.Errorf("uncloak after panic: %v", err)
			}
			panic(r)
		}
	}()
	fn()
}

// Events returns the send side of the loop's bounded channel, for
// cmd/openniri to wire the IPC server's Handler and the tray
// forwarder onto.
func (d *Daemon) Events() chan<- Event { return d.events }

// Dispatch is the ipc.Handler cmd/openniri installs on the IPC server:
// it hands cmd to the event loop and blocks for the single-shot
// reply, matching spec.md section 5's "client tasks serialize each
// request through the same MPSC channel and await a single-shot reply
// channel."
func (d *Daemon) Dispatch(cmd ipc.Command) ipc.Response {
	respCh := make(chan ipc.Response, 1)
	d.pushEvent(Event{Kind: EventIpcCommand, IpcReq: IpcRequest{Cmd: cmd, Responder: respCh}})
	return <-respCh
}

// pushEvent enqueues ev, dropping and logging it if the channel is
// full rather than blocking a forwarder thread indefinitely.
func (d *Daemon) pushEvent(ev Event) {
	select {
	case d.events <- ev:
	default:
		d.Log.Warnf("event queue full, dropping event kind %d", ev.Kind)
	}
}

// Run is the main loop (startup step 10): it consumes Event values
// until EventShutdown or ctx is cancelled, then runs the shutdown
// path. The caller (cmd/openniri) wraps this call in the same
// recover-and-uncloak trap used for startup and for the forwarder
// goroutines below, so a panic here still uncloaks every visible
// window before the process goes down (spec.md section 7).
func (d *Daemon) Run(ctx context.Context) error {
	defer d.shutdown()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-d.events:
			d.handle(ev)
			if d.stopRequested {
				return nil
			}
		}
	}
}

func (d *Daemon) handle(ev Event) {
	switch ev.Kind {
	case EventIpcCommand:
		resp, shouldStop := d.HandleCommand(ev.IpcReq.Cmd)
		ev.IpcReq.Responder <- resp
		if shouldStop {
			d.stopRequested = true
		}
	case EventWindow:
		d.HandleWindowEvent(ev.Window)
		if ev.Window.Kind == platform.MouseEnterWindow {
			d.scheduleFocusFollowsMouse(ev.Window.ID)
		}
	case EventHotkey:
		d.HandleHotkey(ev.Hotkey)
	case EventGesture:
		d.HandleGesture(ev.Gesture)
	case EventTray:
		d.HandleTray(ev.Tray)
		if ev.Tray == TrayExit {
			d.stopRequested = true
		}
	case EventAnimationTick:
		d.tickAnimations()
	case EventHideSnapHint:
		d.Log.Debugf("snap hint hidden")
	case EventFocusFollowsMouse:
		d.focusByMouseEnter(geometry.WindowID(ev.FocusFollowsMouseID))
	case EventShutdown:
		d.stopRequested = true
	}
}

// tickAnimations implements the animation timer: advance every
// animating workspace by one frame, re-apply layout, and let the
// ticker management (manageAnimationTicker, also called from every
// applyWorkspace) stop the ticker once nothing is animating.
func (d *Daemon) tickAnimations() {
	for monitorID, ws := range d.State.Workspaces {
		if !ws.IsAnimating() {
			continue
		}
		ws.TickAnimation(animationTickInterval.Milliseconds())
		d.applyPlacementsOnly(monitorID)
	}
	d.manageAnimationTicker()
}

// applyWorkspace recomputes one workspace's placements from its
// current scroll offset (the in-between offset if an animation is in
// flight) and pushes them to the platform, per spec.md section
// 4.E's command dispatch step 3.
func (d *Daemon) applyWorkspace(monitorID geometry.MonitorID) error {
	err := d.applyPlacementsOnly(monitorID)
	d.manageAnimationTicker()
	return err
}

func (d *Daemon) applyPlacementsOnly(monitorID geometry.MonitorID) error {
	ws, ok := d.State.Workspaces[monitorID]
	if !ok {
		return nil
	}
	viewport := d.State.Viewport(monitorID)
	placements := ws.ComputePlacementsAnimated(viewport)
	if err := d.Platform.ApplyPlacements(placements, d.State.PlacementConfig()); err != nil {
		d.Log.Warnf("apply placements for monitor %d: %v", monitorID, err)
		return err
	}
	return nil
}

// manageAnimationTicker starts the 16ms animation ticker the first
// time any workspace is animating and stops it once none are,
// matching spec.md section 4.E's on-demand animation timer.
func (d *Daemon) manageAnimationTicker() {
	animating := d.State.IsAnimating()
	switch {
	case animating && d.animTicker == nil:
		d.animTicker = time.NewTicker(animationTickInterval)
		d.animStop = make(chan struct{})
		stop := d.animStop
		go func() {
			for {
				select {
				case <-d.animTicker.C:
					d.pushEvent(Event{Kind: EventAnimationTick})
				case <-stop:
					return
				}
			}
		}()
	case !animating && d.animTicker != nil:
		d.animTicker.Stop()
		close(d.animStop)
		d.animTicker = nil
		d.animStop = nil
	}
}

// syncForeground pushes the OS foreground window to id and, if
// active-border highlighting is enabled, colors its border and clears
// the previous focus's border, per spec.md section 4.E's command
// dispatch step 4.
func (d *Daemon) syncForeground(id geometry.WindowID) {
	if err := d.Platform.SetForegroundWindow(id); err != nil {
		d.Log.Debugf("set foreground %d: %v", id, err)
	}
	if !d.State.Config.Appearance.ActiveBorder {
		d.State.PreviousFocusedWindow = id
		return
	}
	if prev := d.State.PreviousFocusedWindow; prev != 0 && prev != id {
		if err := d.Platform.ResetWindowBorderColor(prev); err != nil {
			d.Log.Debugf("reset border %d: %v", prev, err)
		}
	}
	if bgr, ok := parseHexColorBGR(d.State.Config.Appearance.ActiveBorderColor); ok {
		if err := d.Platform.SetWindowBorderColor(id, bgr); err != nil {
			d.Log.Debugf("set border %d: %v", id, err)
		}
	}
	d.State.PreviousFocusedWindow = id
}

// showSnapHint implements spec.md section 4.E's snap-hint timer: on a
// resize command, if hints are enabled, fetch the focused column's
// current rect (the overlay itself, out of scope, would draw it here)
// and (re)schedule HideSnapHint, cancelling any hint already pending.
func (d *Daemon) showSnapHint() {
	if !d.State.Config.SnapHints.Enabled {
		return
	}
	ws := d.State.FocusedWorkspace()
	viewport := d.State.Viewport(d.State.FocusedMonitor)
	rect, ok := ws.FocusedColumnRect(viewport)
	if !ok {
		return
	}
	d.Log.Debugf("snap hint at %+v", rect)

	if d.snapHintTimer != nil {
		d.snapHintTimer.Stop()
	}
	duration := time.Duration(d.State.Config.SnapHints.DurationMs) * time.Millisecond
	d.snapHintTimer = time.AfterFunc(duration, func() {
		d.pushEvent(Event{Kind: EventHideSnapHint})
	})
}

// scheduleFocusFollowsMouse debounces MouseEnterWindow(id): any
// pending timer is cancelled and a fresh one scheduled, so only the
// latest hover fires, per spec.md section 4.E.
func (d *Daemon) scheduleFocusFollowsMouse(id geometry.WindowID) {
	if !d.State.Config.Behavior.FocusFollowsMouse {
		return
	}
	if d.focusFollowsTimer != nil {
		d.focusFollowsTimer.Stop()
	}
	d.focusFollowsGen++
	gen := d.focusFollowsGen
	delay := time.Duration(d.State.Config.Behavior.FocusFollowsMouseDelayMs) * time.Millisecond
	d.focusFollowsTimer = time.AfterFunc(delay, func() {
		d.pushEvent(Event{Kind: EventFocusFollowsMouse, FocusFollowsMouseID: uint64(id)})
		_ = gen
	})
}

func (d *Daemon) focusByMouseEnter(id geometry.WindowID) {
	d.handleWindowFocused(id)
	d.syncForeground(id)
}

// reregisterHotkeys closes any previous hotkey subscription and
// installs one from the current config's binding table, matching
// spec.md section 4.F's "A reload ... rebuilds [hotkeys] from the new
// binding table."
func (d *Daemon) reregisterHotkeys() error {
	if d.hotkeySub != nil {
		d.hotkeySub.Close()
		d.hotkeySub = nil
	}
	bindings, warnings := d.State.Config.CompileHotkeys()
	for _, w := range warnings {
		d.Log.Warnf("hotkeys: %s: %s", w.Field, w.Message)
	}
	sub, ch, err := d.Platform.RegisterHotkeys(bindings)
	if err != nil {
		return fmt.Errorf("register hotkeys: %w", err)
	}
	d.hotkeySub = sub
	go d.trapPanics(func() {
		for ev := range ch {
			d.pushEvent(Event{Kind: EventHotkey, Hotkey: ev})
		}
	})
	return nil
}

// requestShutdown is the tray Exit / SIGINT-equivalent entry point:
// it marks the loop to stop after the current event finishes
// processing, letting Run's deferred shutdown() run the clean
// shutdown path.
func (d *Daemon) requestShutdown() {
	d.stopRequested = true
}

// shutdown implements spec.md section 4.E's shutdown path: persist
// state, uncloak every managed window, stop timers, and close every
// subscription so its forwarder goroutine exits.
func (d *Daemon) shutdown() {
	d.Log.Infof("shutting down")

	snap := persist.Snapshot(d.State.DeviceNames(), d.State.Workspaces, time.Now().Unix(), d.State.Monitors[d.State.FocusedMonitor].DeviceName)
	if err := persist.Save(snap); err != nil {
		d.Log.Warnf("persist state: %v", err)
	}

	if err := d.Platform.UncloakAllManagedWindows(d.State.ManagedWindowIDs()); err != nil {
		d.Log.Warnf("uncloak managed windows: %v", err)
	}

	if d.animTicker != nil {
		d.animTicker.Stop()
		close(d.animStop)
	}
	if d.snapHintTimer != nil {
		d.snapHintTimer.Stop()
	}
	if d.focusFollowsTimer != nil {
		d.focusFollowsTimer.Stop()
	}

	for _, sub := range []platform.Subscription{d.windowSub, d.mouseSub, d.hotkeySub, d.gestureSub} {
		if sub != nil {
			sub.Close()
		}
	}
}

// parseHexColorBGR parses a "RRGGBB" hex string into the BGR-packed
// uint32 Win32's border color APIs expect.
func parseHexColorBGR(hex string) (uint32, bool) {
	if len(hex) != 6 {
		return 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, false
	}
	r := (v >> 16) & 0xFF
	g := (v >> 8) & 0xFF
	b := v & 0xFF
	return uint32(b<<16 | g<<8 | r), true
}
