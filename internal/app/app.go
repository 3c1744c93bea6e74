// Package app 负责装配存储、状态容器与主题同步，并管理应用程序生命周期。
package app

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/purpose168/floatchat-cn/internal/config"
	"github.com/purpose168/floatchat-cn/internal/db"
	"github.com/purpose168/floatchat-cn/internal/env"
	"github.com/purpose168/floatchat-cn/internal/event"
	"github.com/purpose168/floatchat-cn/internal/log"
	"github.com/purpose168/floatchat-cn/internal/pubsub"
	"github.com/purpose168/floatchat-cn/internal/storage"
	"github.com/purpose168/floatchat-cn/internal/store"
	"github.com/purpose168/floatchat-cn/internal/theme"
	"github.com/purpose168/floatchat-cn/internal/update"
	"github.com/purpose168/floatchat-cn/internal/version"
	"golang.org/x/sync/errgroup"
)

// UpdateAvailableMsg 在有新版本可用时发送。
type UpdateAvailableMsg struct {
	CurrentVersion string
	LatestVersion  string
	IsDevelopment  bool
}

type App struct {
	Store *store.Store

	config   *config.Config
	detector *theme.PollDetector

	serviceEventsWG *sync.WaitGroup
	events          chan tea.Msg
	tuiWG           *sync.WaitGroup

	// 全局上下文与清理函数
	globalCtx    context.Context
	stopStore    func()
	cleanupFuncs []func(context.Context) error
}

// New 初始化一个新的应用程序实例。
// 装配顺序：数据库之上建存储适配器，适配器之上建状态容器并恢复
// 持久化快照，最后把主题探测器接到容器上，让主题跟随宿主环境。
func New(ctx context.Context, conn *sql.DB, cfg *config.Config) (*App, error) {
	q := db.New(conn)
	st := store.New(ctx, cfg.StoreOptions(), storage.NewSqlite(q))
	st.Load(ctx)

	host := theme.NewTermHost(env.New(), func() bool {
		return lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
	})
	detector := theme.NewPollDetector(host, 0)
	themeCancel := theme.Sync(detector, st)

	app := &App{
		Store: st,

		config:   cfg,
		detector: detector,

		globalCtx: ctx,

		events:          make(chan tea.Msg, 100),
		serviceEventsWG: &sync.WaitGroup{},
		tuiWG:           &sync.WaitGroup{},
	}

	app.setupEvents()

	// 在后台检查更新。
	go app.checkForUpdates(ctx)

	// 状态容器的停止不进并行清理：Close 会同步落盘最后的防抖变更，
	// 必须发生在数据库连接关闭之前，由 Shutdown 先行调用。
	app.stopStore = func() {
		themeCancel()
		detector.Close()
		st.Close()
	}
	app.cleanupFuncs = append(
		app.cleanupFuncs,
		func(context.Context) error { return conn.Close() },
	)

	return app, nil
}

// Config 返回应用程序配置。
func (app *App) Config() *config.Config {
	return app.config
}

func (app *App) setupEvents() {
	ctx, cancel := context.WithCancel(app.globalCtx)
	setupSubscriber(ctx, app.serviceEventsWG, "store", app.Store.Subscribe, app.events)
	cleanupFunc := func(context.Context) error {
		cancel()
		app.serviceEventsWG.Wait()
		return nil
	}
	app.cleanupFuncs = append(app.cleanupFuncs, cleanupFunc)
}

const subscriberSendTimeout = 2 * time.Second

func setupSubscriber[T any](
	ctx context.Context,
	wg *sync.WaitGroup,
	name string,
	subscriber func(context.Context) <-chan pubsub.Event[T],
	outputCh chan<- tea.Msg,
) {
	wg.Go(func() {
		subCh := subscriber(ctx)
		sendTimer := time.NewTimer(0)
		<-sendTimer.C
		defer sendTimer.Stop()

		for {
			select {
			case event, ok := <-subCh:
				if !ok {
					slog.Debug("订阅通道已关闭", "name", name)
					return
				}
				var msg tea.Msg = event
				if !sendTimer.Stop() {
					select {
					case <-sendTimer.C:
					default:
					}
				}
				sendTimer.Reset(subscriberSendTimeout)

				select {
				case outputCh <- msg:
				case <-sendTimer.C:
					slog.Debug("消息因消费者缓慢而丢弃", "name", name)
				case <-ctx.Done():
					slog.Debug("订阅已取消", "name", name)
					return
				}
			case <-ctx.Done():
				slog.Debug("订阅已取消", "name", name)
				return
			}
		}
	})
}

// Subscribe 将事件作为 tea.Msgs 发送到 TUI。
func (app *App) Subscribe(program *tea.Program) {
	defer log.RecoverPanic("app.Subscribe", func() {
		slog.Info("TUI订阅 panic: 尝试优雅关闭")
		program.Quit()
	})

	app.tuiWG.Add(1)
	tuiCtx, tuiCancel := context.WithCancel(app.globalCtx)
	app.cleanupFuncs = append(app.cleanupFuncs, func(context.Context) error {
		slog.Debug("取消TUI消息处理器")
		tuiCancel()
		app.tuiWG.Wait()
		return nil
	})
	defer app.tuiWG.Done()

	for {
		select {
		case <-tuiCtx.Done():
			slog.Debug("TUI消息处理器正在关闭")
			return
		case msg, ok := <-app.events:
			if !ok {
				slog.Debug("TUI消息通道已关闭")
				return
			}
			program.Send(msg)
		}
	}
}

// Shutdown 执行应用程序的优雅关闭。
func (app *App) Shutdown() {
	start := time.Now()
	defer func() { slog.Debug("关闭耗时 " + time.Since(start).String()) }()

	// 首先同步停掉状态容器并等待最后一次落盘完成。这必须在剩余
	// 清理（尤其是关闭数据库连接）并行执行之前做完。
	if app.stopStore != nil {
		app.stopStore()
	}

	// 所有有超时限制的清理任务共享的关闭上下文。
	shutdownCtx, cancel := context.WithTimeout(app.globalCtx, 5*time.Second)
	defer cancel()

	var g errgroup.Group

	// 发送退出事件
	g.Go(func() error {
		event.AppExited()
		return nil
	})

	// 调用所有清理函数。
	for _, cleanup := range app.cleanupFuncs {
		if cleanup != nil {
			g.Go(func() error {
				return cleanup(shutdownCtx)
			})
		}
	}
	if err := g.Wait(); err != nil {
		slog.Error("应用程序关闭时清理失败", "error", err)
	}
}

// checkForUpdates 检查可用更新。
func (app *App) checkForUpdates(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	info, err := update.Check(checkCtx, version.Version, update.Default)
	if err != nil || !info.Available() {
		return
	}
	app.events <- UpdateAvailableMsg{
		CurrentVersion: info.Current,
		LatestVersion:  info.Latest,
		IsDevelopment:  info.IsDevelopment(),
	}
}
