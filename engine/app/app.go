package app

import (
	"context"
	"fmt"
	"time"

	"github.com/memmaker/voxelengine/engine/util"
	"github.com/mlange-42/arche/ecs"
)

type Schedule int

const (
	// Startup systems run once, right before the first Update.
	Startup Schedule = iota
	Update
	PostUpdate
	scheduleCount
)

func (s Schedule) String() string {
	switch s {
	case Startup:
		return "startup"
	case Update:
		return "update"
	case PostUpdate:
		return "post-update"
	}
	return fmt.Sprintf("schedule(%d)", int(s))
}

type System func(world *ecs.World)

type Plugin interface {
	Name() string
	Build(a *App)
}

type namedSystem struct {
	name string
	run  System
}

// AppExit is set by any system that wants the main loop to stop.
type AppExit struct {
	Requested bool
	Reason    string
}

// App owns the ECS world and runs systems grouped into schedules.
type App struct {
	World ecs.World

	schedules [scheduleCount][]namedSystem
	plugins   map[string]bool
	startedUp bool
	timer     *util.Timer
	cleanups  []func()

	time  Time
	input Input
	exit  AppExit
}

func NewApp() *App {
	a := &App{
		World:   ecs.NewWorld(),
		plugins: make(map[string]bool),
		timer:   util.NewTimer(),
		input:   NewInput(),
	}
	InsertResource(a, &a.time)
	InsertResource(a, &a.input)
	InsertResource(a, &a.exit)
	return a
}

// AddPlugins builds each plugin once. Plugins with a name seen before are skipped.
func (a *App) AddPlugins(plugins ...Plugin) *App {
	for _, p := range plugins {
		if a.plugins[p.Name()] {
			util.LogECSDebug(fmt.Sprintf("plugin %s already added", p.Name()))
			continue
		}
		a.plugins[p.Name()] = true
		util.LogECSInfo(fmt.Sprintf("adding plugin %s", p.Name()))
		p.Build(a)
	}
	return a
}

func (a *App) HasPlugin(name string) bool {
	return a.plugins[name]
}

func (a *App) AddSystem(schedule Schedule, name string, system System) *App {
	if schedule < 0 || schedule >= scheduleCount {
		panic(fmt.Sprintf("invalid schedule %d for system %s", schedule, name))
	}
	a.schedules[schedule] = append(a.schedules[schedule], namedSystem{name: name, run: system})
	return a
}

// Systems lists the system names of a schedule in execution order.
func (a *App) Systems(schedule Schedule) []string {
	names := make([]string, 0, len(a.schedules[schedule]))
	for _, s := range a.schedules[schedule] {
		names = append(names, s.name)
	}
	return names
}

// AddCleanup registers fn to run on Close. Cleanups run in reverse order.
func (a *App) AddCleanup(fn func()) {
	a.cleanups = append(a.cleanups, fn)
}

func (a *App) Close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
}

func (a *App) Time() *Time {
	return &a.time
}

func (a *App) Input() *Input {
	return &a.input
}

func (a *App) Exit(reason string) {
	a.exit = AppExit{Requested: true, Reason: reason}
}

func (a *App) ExitRequested() bool {
	return a.exit.Requested
}

// Timings returns the accumulated run times of all systems that ran so far.
func (a *App) Timings() []util.TimerState {
	return a.timer.States()
}

func (a *App) runSchedule(schedule Schedule) {
	for _, s := range a.schedules[schedule] {
		stop := a.timer.Start(schedule.String() + "/" + s.name)
		s.run(&a.World)
		stop()
	}
}

func (a *App) Startup() {
	if a.startedUp {
		return
	}
	a.startedUp = true
	util.LogECSDebug(fmt.Sprintf("running %d startup systems", len(a.schedules[Startup])))
	a.runSchedule(Startup)
}

// Update advances the app by one frame of length dt and reports whether it should keep running.
func (a *App) Update(dt time.Duration) bool {
	a.Startup()
	a.time.advance(dt)
	a.runSchedule(Update)
	a.runSchedule(PostUpdate)
	a.input.endFrame()
	return !a.exit.Requested
}

// RunFrames runs n fixed frames, stopping early when an exit is requested.
func (a *App) RunFrames(n int, dt time.Duration) int {
	for i := 0; i < n; i++ {
		if !a.Update(dt) {
			return i + 1
		}
	}
	return n
}

// Run updates the app on every tick until ctx is done or an exit is requested.
// Cancelling ctx is a regular way to stop and returns nil.
func (a *App) Run(ctx context.Context, tick time.Duration) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	last := time.Now()
	if !a.Update(0) {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			util.LogECSInfo("app stopped by context")
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if !a.Update(dt) {
				util.LogECSInfo(fmt.Sprintf("app exit requested: %s", a.exit.Reason))
				return nil
			}
		}
	}
}

func InsertResource[T any](a *App, res *T) {
	ecs.AddResource[T](&a.World, res)
}

// GetResource returns nil when no resource of type T was inserted.
func GetResource[T any](w *ecs.World) *T {
	id := ecs.ResourceID[T](w)
	if !w.Resources().Has(id) {
		return nil
	}
	return w.Resources().Get(id).(*T)
}
