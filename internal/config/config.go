package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Input  InputConfig  `toml:"input"`
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig 服务器配置（-serve 模式）
type ServerConfig struct {
	Port        int  `toml:"port"`
	DevMode     bool `toml:"dev_mode"`
	OpenBrowser bool `toml:"open_browser"`

	// PlanRateLimit 每个 IP 每分钟允许的 POST /api/plan 次数，0 表示不限
	PlanRateLimit int `toml:"plan_rate_limit"`
	// TrustedProxies 允许提供 X-Forwarded-For 的代理地址或网段，为空则不信任任何代理
	TrustedProxies []string `toml:"trusted_proxies"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir     string `toml:"data_dir"`
	PersistRuns bool   `toml:"persist_runs"`
}

// InputConfig 输入文件配置
type InputConfig struct {
	Dir         string   `toml:"dir"`
	DaysFile    string   `toml:"days_file"`
	TrackAFile  string   `toml:"track_a_file"`
	TrackBFile  string   `toml:"track_b_file"`
	PinnedFile  string   `toml:"pinned_file"`
	DateLayouts []string `toml:"date_layouts"`

	// Workbook 合并输入工作簿（四个工作表）；存在时优先于单独文件
	Workbook string `toml:"workbook"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	Dir        string `toml:"dir"`
	DateLayout string `toml:"date_layout"`
	FreeLabel  string `toml:"free_label"`
	WriteXLSX  bool   `toml:"write_xlsx"`
	XLSXFile   string `toml:"xlsx_file"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:          20262,
			DevMode:       false,
			OpenBrowser:   true,
			PlanRateLimit: 30,
		},
		Data: DataConfig{
			DataDir:     "data",
			PersistRuns: true,
		},
		Input: InputConfig{
			Dir:         "input",
			DaysFile:    "jours.csv",
			TrackAFile:  "modules_A.csv",
			TrackBFile:  "modules_B.csv",
			PinnedFile:  "liens.csv",
			DateLayouts: []string{"2/1/2006", "2006-01-02"},
			Workbook:    "entrees.xlsx",
		},
		Output: OutputConfig{
			Dir:        "output",
			DateLayout: "02/01/2006",
			FreeLabel:  "Libre",
			WriteXLSX:  true,
			XLSXFile:   "planning.xlsx",
		},
		Log: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadConfigFile(DefaultConfigPath())
}

// LoadConfigFile 从指定路径加载配置；文件不存在时使用默认配置
func LoadConfigFile(configPath string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: configPath}
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(config)
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	applyEnv(config)
	return config, info, nil
}

// 环境变量覆盖（用于脚本 / 本地运行）
func applyEnv(config *AppConfig) {
	if v := os.Getenv("PLANNING_INPUT_DIR"); v != "" {
		config.Input.Dir = v
	}
	if v := os.Getenv("PLANNING_OUTPUT_DIR"); v != "" {
		config.Output.Dir = v
	}
	if v := os.Getenv("PLANNING_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
}

// SaveConfig 保存配置到指定路径
func SaveConfig(config *AppConfig, configPath string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 确保数据目录存在，返回绝对路径
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
