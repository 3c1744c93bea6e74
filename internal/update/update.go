// Package update 在后台检查 floatchat 是否有新版本发布
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	// releaseApiUrl 获取最新发布版本的 GitHub API 地址
	releaseApiUrl = "https://api.github.com/repos/purpose168/floatchat-cn/releases/latest"
	userAgent     = "floatchat/1.0"
)

// Default 是默认的更新客户端
var Default Client = &github{}

// Info 包含可用更新的信息
type Info struct {
	Current string // 当前版本
	Latest  string // 最新版本
	URL     string // 发布页面链接
}

// goInstallRegexp 匹配 go install 生成的伪版本：
// v0.0.0-0.20251231235959-06c807842604
var goInstallRegexp = regexp.MustCompile(`^v?\d+\.\d+\.\d+-\d+\.\d{14}-[0-9a-f]{12}$`)

// IsDevelopment 判断当前版本是否为开发版本
func (i Info) IsDevelopment() bool {
	return i.Current == "devel" || i.Current == "unknown" || strings.Contains(i.Current, "dirty") || goInstallRegexp.MatchString(i.Current)
}

// Available 判断是否有可用更新
// 预发布版本（带 "-" 的版本）永远不会被推荐给稳定版本的用户；
// 反过来，稳定版本总是被推荐给预发布版本的用户
func (i Info) Available() bool {
	cpr := strings.Contains(i.Current, "-")
	lpr := strings.Contains(i.Latest, "-")

	if cpr && !lpr {
		return true
	}
	if lpr && !cpr {
		return false
	}
	return i.Current != i.Latest
}

// Check 检查是否有新版本可用
func Check(ctx context.Context, current string, client Client) (Info, error) {
	info := Info{
		Current: current,
		Latest:  current,
	}

	release, err := client.Latest(ctx)
	if err != nil {
		return info, fmt.Errorf("failed to fetch latest release: %w", err)
	}

	info.Latest = strings.TrimPrefix(release.TagName, "v")
	info.Current = strings.TrimPrefix(info.Current, "v")
	info.URL = release.HTMLURL
	return info, nil
}

// Release 表示一个 GitHub 发布版本
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Client 是一个可以获取最新发布版本的客户端接口
type Client interface {
	Latest(ctx context.Context) (*Release, error)
}

type github struct{}

func (c *github) Latest(ctx context.Context) (*Release, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", releaseApiUrl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("GitHub API returned status %d: %s", resp.StatusCode, string(body))
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}
	return &release, nil
}
