package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/Sev3364/Planning-app/internal/config"
	"github.com/Sev3364/Planning-app/internal/logging"
	"github.com/Sev3364/Planning-app/internal/server"
	"github.com/Sev3364/Planning-app/internal/service/pipeline"
	"github.com/Sev3364/Planning-app/internal/store"
	"github.com/Sev3364/Planning-app/internal/util"
)

// 致命错误前缀
const fatalPrefix = "ERREUR BLOQUANTE"

type options struct {
	configPath string
	writeTo    string
	inputDir   string
	outputDir  string
	dataDir    string
	port       int
	serve      bool
	devMode    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("planning", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "配置文件路径 (默认: 可执行文件同目录 config.toml)")
	fs.StringVar(&opts.writeTo, "writeConfig", "", "将生效配置写入指定路径后退出")
	fs.StringVar(&opts.inputDir, "input", "", "输入目录 (覆盖配置文件)")
	fs.StringVar(&opts.outputDir, "output", "", "输出目录 (覆盖配置文件)")
	fs.StringVar(&opts.dataDir, "dataDir", "", "数据目录 (覆盖配置文件)")
	fs.IntVar(&opts.port, "port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	fs.BoolVar(&opts.serve, "serve", false, "启动 HTTP 服务")
	fs.BoolVar(&opts.devMode, "dev", false, "开发模式")
	err := fs.Parse(args)
	return opts, err
}

func loadConfig(opts options) (*config.AppConfig, error) {
	var (
		cfg  *config.AppConfig
		info config.LoadConfigInfo
		err  error
	)
	if opts.configPath != "" {
		cfg, info, err = config.LoadConfigFile(opts.configPath)
	} else {
		cfg, info, err = config.LoadConfigWithInfo()
	}
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", info.Path, err)
	}

	// 命令行参数覆盖配置
	if opts.port > 0 && !info.PortSpecified {
		cfg.Server.Port = opts.port
	}
	if opts.devMode {
		cfg.Server.DevMode = true
		cfg.Log.Development = true
	}
	if opts.dataDir != "" {
		cfg.Data.DataDir = opts.dataDir
	}
	if opts.inputDir != "" {
		cfg.Input.Dir = opts.inputDir
	}
	if opts.outputDir != "" {
		cfg.Output.Dir = opts.outputDir
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	fail := func(err error) int {
		fmt.Fprintf(stderr, "%s: %v\n", fatalPrefix, err)
		return 1
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return fail(err)
	}

	if opts.writeTo != "" {
		if err := config.SaveConfig(cfg, opts.writeTo); err != nil {
			return fail(fmt.Errorf("write config: %w", err))
		}
		fmt.Fprintf(stdout, "配置已写入 %s\n", opts.writeTo)
		return 0
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fail(fmt.Errorf("init logger: %w", err))
	}
	defer func() { _ = logger.Sync() }()

	if opts.serve {
		if err := serve(cfg, logger, stdout); err != nil {
			return fail(err)
		}
		return 0
	}

	if err := runOnce(cfg, logger, stdout); err != nil {
		return fail(err)
	}
	return 0
}

// runOnce 读取输入目录、排课、写出结果；任何致命错误都不产生输出文件
func runOnce(cfg *config.AppConfig, logger *zap.Logger, stdout io.Writer) error {
	var st *store.Store
	if cfg.Data.PersistRuns {
		dataDir, err := config.EnsureDataDir(cfg)
		if err != nil {
			return fmt.Errorf("prepare data dir: %w", err)
		}
		st, err = store.New(filepath.Join(dataDir, "planning.db"))
		if err != nil {
			return err
		}
		defer st.Close()
	}

	runner := pipeline.NewRunner(cfg, st, logger)

	fmt.Fprintln(stdout, "Chargement...")
	plan, err := runner.Run(cfg.Input.Dir)
	if err != nil {
		return err
	}

	res, err := runner.Export(plan, cfg.Output.Dir, nil)
	if err != nil {
		return err
	}

	for _, s := range plan.Shortfalls {
		fmt.Fprintf(stdout, "Non placé: %s (%s) %d séance(s)\n", s.Module, s.Track, s.Missing)
	}
	fmt.Fprintf(stdout, "Planning généré dans %s/ (%d fichiers)\n", res.Dir, len(res.Files))
	return nil
}

func serve(cfg *config.AppConfig, logger *zap.Logger, stdout io.Writer) error {
	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Server.Port))
		errCh <- srv.Run(addr)
	}()

	if cfg.Server.OpenBrowser && !cfg.Server.DevMode {
		fmt.Fprintf(stdout, "正在打开浏览器: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Fprintf(stdout, "无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Fprintf(stdout, "请访问 %s\n", url)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-quit:
		logger.Info("shutting down")
		return nil
	}
}
