package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"dirsize/internal/app"
	"dirsize/internal/config"
	"dirsize/internal/logging"
)

// Версию можно переопределить через -ldflags "-X main.version=1.0.0"
var version = "dev"

// cli — состояние одного запуска: флаги, конфиг и логгер.
type cli struct {
	in         string
	configPath string
	verbose    bool
	quiet      bool
	format     string

	limit    uint64
	capacity uint64
	required uint64

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fail(err)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "dirsize",
		Short: "dirsize — размеры каталогов по транскрипту терминала",
		Long: `dirsize читает транскрипт с командами "$ cd", "$ ls" и листингами
("dir <имя>", "<размер> <имя>"), строит дерево каталогов и печатает:
  1) сумму размеров каталогов не больше -limit;
  2) размер наименьшего каталога, удаление которого освободит достаточно места.

Примеры:
  dirsize -i input.txt
  cat input.txt | dirsize --format json
  dirsize tree -i input.txt --human --top 5`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: c.runReport,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&c.in, "in", "i", "-", "Путь к транскрипту ('-' для stdin)")
	pf.StringVar(&c.configPath, "config", "", "YAML-файл с настройками")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "Подробный вывод (debug-лог в stderr)")
	pf.BoolVarP(&c.quiet, "quiet", "q", false, "Тихий режим (только ошибки)")

	f := root.Flags()
	f.Uint64Var(&c.limit, "limit", 0, "Порог размера каталога для суммы (по умолчанию из конфига: 100000)")
	f.Uint64Var(&c.capacity, "capacity", 0, "Полный объём диска (по умолчанию из конфига: 70000000)")
	f.Uint64Var(&c.required, "required", 0, "Сколько места должно быть свободно (по умолчанию из конфига: 30000000)")
	f.StringVar(&c.format, "format", "text", "Формат вывода: text, json, yaml")

	root.AddCommand(newTreeCmd(c), newVersionCmd())
	return root
}

// setup читает конфиг, накладывает явно заданные флаги и поднимает логгер.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	// version не читает вход, и сломанный конфиг не должен ему мешать.
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if f := cmd.Flags().Lookup("limit"); f != nil && f.Changed {
		cfg.Limit = c.limit
	}
	if f := cmd.Flags().Lookup("capacity"); f != nil && f.Changed {
		cfg.Disk.Capacity = c.capacity
	}
	if f := cmd.Flags().Lookup("required"); f != nil && f.Changed {
		cfg.Disk.Required = c.required
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("некорректные настройки: %w", err)
	}
	c.cfg = cfg

	c.logger, err = logging.New(cfg.Logging.Level, c.verbose, c.quiet)
	return err
}

func (c *cli) options(cmd *cobra.Command) app.Options {
	return app.Options{
		InPath:   c.in,
		Stdin:    cmd.InOrStdin(),
		Limit:    c.cfg.Limit,
		Capacity: c.cfg.Disk.Capacity,
		Required: c.cfg.Disk.Required,
		Logger:   c.logger,
	}
}

func (c *cli) runReport(cmd *cobra.Command, _ []string) error {
	res, err := app.Run(c.options(cmd))
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), c.format, res)
}

func writeResult(w io.Writer, format string, res app.Result) error {
	switch format {
	case "", "text":
		_, err := fmt.Fprintf(w, "%d\n%d\n", res.ThresholdSum, res.Smallest)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(res)
	default:
		return fmt.Errorf("неизвестный формат вывода: %q", format)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Показать версию и выйти",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "ошибка: %v\n", err)
	os.Exit(1)
}
