package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"charm.land/log/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/term"
	"github.com/nxadm/tail"
	"github.com/purpose168/floatchat-cn/internal/config"
	"github.com/spf13/cobra"
)

const defaultTailLines = 1000

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "查看 floatchat 日志",
	Long:  `查看 floatchat 生成的日志，用于调试和监控。`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := cmd.Flags().GetString("cwd")
		if err != nil {
			return fmt.Errorf("获取当前工作目录失败: %v", err)
		}

		dataDir, err := cmd.Flags().GetString("data-dir")
		if err != nil {
			return fmt.Errorf("获取数据目录失败: %v", err)
		}

		follow, err := cmd.Flags().GetBool("follow")
		if err != nil {
			return fmt.Errorf("获取 follow 标志失败: %v", err)
		}

		tailLines, err := cmd.Flags().GetInt("tail")
		if err != nil {
			return fmt.Errorf("获取 tail 标志失败: %v", err)
		}

		log.SetLevel(log.DebugLevel)
		log.SetOutput(os.Stdout)
		if !term.IsTerminal(os.Stdout.Fd()) {
			log.SetColorProfile(colorprofile.NoTTY)
		}

		cfg, err := config.Load(cwd, dataDir, false)
		if err != nil {
			return fmt.Errorf("加载配置失败: %v", err)
		}
		logsFile := filepath.Join(cfg.Options.DataDirectory, "logs", "floatchat.log")
		if _, err := os.Stat(logsFile); os.IsNotExist(err) {
			log.Warn("当前目录下没有 floatchat 日志。")
			return nil
		}

		if err := printTail(logsFile, tailLines, follow); err != nil {
			return err
		}
		if !follow {
			return nil
		}
		return followLogs(cmd.Context(), logsFile)
	},
}

func init() {
	logsCmd.Flags().BoolP("follow", "f", false, "跟踪日志输出")
	logsCmd.Flags().IntP("tail", "t", defaultTailLines, "只显示最后 N 行，默认值: 1000（出于性能考虑）")
}

// printTail 渲染日志文件的最后 tailLines 行。
func printTail(logsFile string, tailLines int, following bool) error {
	t, err := tail.TailFile(logsFile, tail.Config{
		Follow: false,
		ReOpen: false,
		Logger: tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("无法读取日志文件: %v", err)
	}
	defer t.Stop()

	var lines []string
	for line := range t.Lines {
		if line.Err != nil {
			continue
		}
		lines = append(lines, line.Text)
		if len(lines) > tailLines {
			lines = lines[len(lines)-tailLines:]
		}
	}

	for _, line := range lines {
		renderLine(line)
	}

	if len(lines) == tailLines {
		fmt.Fprintf(os.Stderr, "\n显示最后 %d 行。完整日志位于: %s\n", tailLines, logsFile)
		if following {
			fmt.Fprintf(os.Stderr, "正在跟踪新的日志条目...\n\n")
		}
	}
	return nil
}

// followLogs 从文件末尾开始持续跟踪新的日志条目，直到上下文取消。
func followLogs(ctx context.Context, logsFile string) error {
	t, err := tail.TailFile(logsFile, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Logger:   tail.DiscardingLogger,
		Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
	})
	if err != nil {
		return fmt.Errorf("无法跟踪日志文件: %v", err)
	}
	defer t.Stop()

	for {
		select {
		case line := <-t.Lines:
			if line.Err != nil {
				continue
			}
			renderLine(line.Text)
		case <-ctx.Done():
			return nil
		}
	}
}

// renderLine 把一行 JSON 日志重新渲染为彩色输出，非 JSON 行直接丢弃。
func renderLine(lineText string) {
	var data map[string]any
	if err := json.Unmarshal([]byte(lineText), &data); err != nil {
		return
	}

	msg := data["msg"]
	level := data["level"]

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var fields []any
	for _, k := range keys {
		switch k {
		case "msg", "level", "time":
			continue
		case "source":
			source, ok := data[k].(map[string]any)
			if !ok {
				continue
			}
			line, _ := source["line"].(float64)
			fields = append(fields, "source", fmt.Sprintf("%s:%d", source["file"], int(line)))
		default:
			fields = append(fields, k, data[k])
		}
	}

	// 输出时沿用日志行里记录的时间戳
	log.SetTimeFunction(func(_ time.Time) time.Time {
		ts, _ := data["time"].(string)
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return time.Now()
		}
		return t
	})

	switch level {
	case "DEBUG":
		log.Debug(msg, fields...)
	case "WARN":
		log.Warn(msg, fields...)
	case "ERROR":
		log.Error(msg, fields...)
	default:
		log.Info(msg, fields...)
	}
}
