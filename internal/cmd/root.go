package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/exp/charmtone"
	"github.com/charmbracelet/x/term"
	"github.com/purpose168/floatchat-cn/internal/app"
	"github.com/purpose168/floatchat-cn/internal/config"
	"github.com/purpose168/floatchat-cn/internal/db"
	"github.com/purpose168/floatchat-cn/internal/event"
	"github.com/purpose168/floatchat-cn/internal/ui/widget"
	"github.com/purpose168/floatchat-cn/internal/version"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "当前工作目录")
	rootCmd.PersistentFlags().StringP("data-dir", "D", "", "自定义 floatchat 数据目录")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "调试")
	rootCmd.Flags().BoolP("help", "h", false, "帮助")

	rootCmd.AddCommand(
		dirsCmd,
		logsCmd,
		schemaCmd,
	)
}

var rootCmd = &cobra.Command{
	Use:   "floatchat",
	Short: "可嵌入的悬浮聊天挂件",
	Long:  "终端里的悬浮聊天挂件：气泡、会话历史、附件上传和反馈投票，主题跟随宿主环境",
	Example: `
# 在交互模式下运行
floatchat

# 启用调试日志运行
floatchat -d

# 在特定目录中运行
floatchat -c /path/to/project

# 使用自定义数据目录运行
floatchat -D /path/to/custom/.floatchat

# 打印版本
floatchat -v
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		event.AppInitialized()

		model := widget.New(app)
		program := tea.NewProgram(
			model,
			tea.WithContext(cmd.Context()),
		)
		go app.Subscribe(program)

		if _, err := program.Run(); err != nil {
			event.Error(err)
			slog.Error("TUI 运行错误", "error", err)
			return errors.New("floatchat 崩溃了。如果启用了指标，我们已经收到了通知。如果您想报告它，请复制上面的堆栈跟踪并在 https://github.com/purpose168/floatchat-cn/issues 打开一个问题")
		}
		return nil
	},
}

var bubbleMark = lipgloss.NewStyle().Foreground(charmtone.Charple).SetString(`
  ▄▄▄▄▄▄▄▄▄▄▄▄
 ██████████████
 ██████████████
 ██████████████
  ▀▀▀▀▀█▀▀▀▀▀▀
       ▀
`)

// copied from cobra:
const defaultVersionTemplate = `{{with .DisplayName}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`

func Execute() {
	// cobra 没有提供自定义版本输出的钩子，PreRunE 又在版本处理之后
	// 才运行，所以这里用 colorprofile 写入器预先渲染彩色图标，再把
	// 它塞进版本模板的前面。
	if term.IsTerminal(os.Stdout.Fd()) {
		var b bytes.Buffer
		w := colorprofile.NewWriter(os.Stdout, os.Environ())
		w.Forward = &b
		_, _ = w.WriteString(bubbleMark.String())
		rootCmd.SetVersionTemplate(b.String() + "\n" + defaultVersionTemplate)
	}
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// setupApp 加载配置、连接数据库并装配应用实例。
func setupApp(cmd *cobra.Command) (*app.App, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	ctx := cmd.Context()

	cwd, err := ResolveCwd(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(cwd, dataDir, debug)
	if err != nil {
		return nil, err
	}

	if err := createDataDir(cfg.Options.DataDirectory); err != nil {
		return nil, err
	}

	// 连接到数据库；这也会运行迁移。
	conn, err := db.Connect(ctx, cfg.Options.DataDirectory)
	if err != nil {
		return nil, err
	}

	appInstance, err := app.New(ctx, conn, cfg)
	if err != nil {
		slog.Error("创建应用实例失败", "error", err)
		return nil, err
	}

	if shouldEnableMetrics(cfg) {
		event.Init()
	}

	return appInstance, nil
}

func shouldEnableMetrics(cfg *config.Config) bool {
	if v, _ := strconv.ParseBool(os.Getenv("FLOATCHAT_DISABLE_METRICS")); v {
		return false
	}
	if v, _ := strconv.ParseBool(os.Getenv("DO_NOT_TRACK")); v {
		return false
	}
	if cfg.Options.DisableMetrics {
		return false
	}
	return true
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		err := os.Chdir(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}

func createDataDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create data directory: %q %w", dir, err)
	}

	gitIgnorePath := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(gitIgnorePath); os.IsNotExist(err) {
		if err := os.WriteFile(gitIgnorePath, []byte("*\n"), 0o644); err != nil {
			return fmt.Errorf("failed to create .gitignore file: %q %w", gitIgnorePath, err)
		}
	}

	return nil
}
