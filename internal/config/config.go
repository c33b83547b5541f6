/*
 * Copyright (c) 2023. Anton Starikov -- All Rights Reserved
 *
 * This file is part of CCGTSIM project.
 *
 * CCGTSIM is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package config

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/antst/ccgtsim/internal/logger"

	"github.com/pborman/getopt/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFile  = "config.yaml"
	defaultLogEncoding = "console"
	defaultWorkers     = 4
	DefaultCaseName    = "default"
)

// ErrHelp is returned by Parse when usage was requested.
var ErrHelp = errors.New("help requested")

type OutputConfig struct {
	XLSX string `yaml:"xlsx,omitempty"`
	PDF  string `yaml:"pdf,omitempty"`
	JSON string `yaml:"json,omitempty"`
}

type Config struct {
	LogLevel    zapcore.Level        `yaml:"log_level"`
	LogEncoding string               `yaml:"log_encoding"`
	DBFile      string               `yaml:"db_file"`
	MQTTConfig  *MQTTConfig          `yaml:"mqtt"`
	Workers     int                  `yaml:"workers"`
	Cycle       CycleConfig          `yaml:"cycle"`
	HRSG        HRSGConfig           `yaml:"hrsg"`
	DeadState   DeadStateConfig      `yaml:"dead_state"`
	Limits      LimitsConfig         `yaml:"limits"`
	Output      OutputConfig         `yaml:"output"`
	Cases       map[string]yaml.Node `yaml:"cases,omitempty"`

	specified map[string]bool
}

// CaseConfig is one fully resolved operating point.
type CaseConfig struct {
	Name      string          `yaml:"-"`
	Cycle     CycleConfig     `yaml:"cycle"`
	HRSG      HRSGConfig      `yaml:"hrsg"`
	DeadState DeadStateConfig `yaml:"dead_state"`
	Limits    LimitsConfig    `yaml:"limits"`

	// section.key paths set in the config file
	specified map[string]bool
}

// Specified reports whether the config file set the attribute at path,
// e.g. "cycle.T_5".
func (c *CaseConfig) Specified(path string) bool {
	return c.specified[path]
}

func defConfig() *Config {
	return &Config{
		LogLevel:    zapcore.InfoLevel,
		LogEncoding: defaultLogEncoding,
		MQTTConfig:  NewMQTTConfig(),
		Workers:     defaultWorkers,
		Cycle:       DefaultCycle(),
		HRSG:        DefaultHRSG(),
		DeadState:   DefaultDeadState(),
		Limits:      DefaultLimits(),
		Cases:       make(map[string]yaml.Node),
	}
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return defConfig()
}

// DefaultCase is the default operating point.
func DefaultCase() CaseConfig {
	cfg := defConfig()
	return cfg.base(DefaultCaseName)
}

func prettyPrint(cfg *Config) {
	d, err := yaml.Marshal(cfg)
	if err != nil {
		logger.L().Error("Failed to marshal config for pretty print", err)
		return
	}
	logger.L().Debugf("--- Config ---\n%s\n\n", string(d))
}

func (cfg *Config) FillDefaults() {
	if cfg.MQTTConfig == nil {
		cfg.MQTTConfig = NewMQTTConfig()
	}
	cfg.MQTTConfig.FillDefaults()
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.LogEncoding == "" {
		cfg.LogEncoding = defaultLogEncoding
	}
}

func (cfg *Config) base(name string) CaseConfig {
	c := CaseConfig{
		Name:      name,
		Cycle:     cfg.Cycle,
		HRSG:      cfg.HRSG,
		DeadState: cfg.DeadState,
		Limits:    cfg.Limits,
	}
	if cfg.specified != nil {
		c.specified = make(map[string]bool, len(cfg.specified))
		for k := range cfg.specified {
			c.specified[k] = true
		}
	}
	return c
}

var caseSections = map[string]bool{"cycle": true, "hrsg": true, "dead_state": true, "limits": true}

// collectSpecified records the section.key paths set in a mapping node.
func collectSpecified(n *yaml.Node, into map[string]bool) {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		section, body := n.Content[i].Value, n.Content[i+1]
		if !caseSections[section] || body.Kind != yaml.MappingNode {
			continue
		}
		for j := 0; j+1 < len(body.Content); j += 2 {
			into[section+"."+body.Content[j].Value] = true
		}
	}
}

// decodeCase overlays a case node onto c, rejecting keys c does not have.
func decodeCase(node *yaml.Node, c *CaseConfig) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return err
	}
	if c.specified == nil {
		c.specified = make(map[string]bool)
	}
	collectSpecified(node, c.specified)
	return nil
}

// Resolve expands the named cases into full configurations, each one the
// top-level sections overlaid with the keys the case sets. Without cases
// the top-level sections form a single case named "default".
func (cfg *Config) Resolve() ([]CaseConfig, error) {
	if len(cfg.Cases) == 0 {
		return []CaseConfig{cfg.base(DefaultCaseName)}, nil
	}

	names := make([]string, 0, len(cfg.Cases))
	for name := range cfg.Cases {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]CaseConfig, 0, len(names))
	for _, name := range names {
		c := cfg.base(name)
		node := cfg.Cases[name]
		if err := decodeCase(&node, &c); err != nil {
			return nil, errors.Wrapf(err, "case `%v`", name)
		}
		out = append(out, c)
	}
	return out, nil
}

// Get builds the configuration from the command line and the config file.
// Failures are fatal, like any other startup error of the binary.
func Get() *Config {
	cfg, err := Parse(os.Args)
	if errors.Is(err, ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Panicf("GetConfig: %v", err)
	}
	return cfg
}

// Parse is Get for an explicit argument vector, args[0] being the program.
func Parse(args []string) (*Config, error) {
	cfg := defConfig()

	set := getopt.New()
	logLevel := set.StringLong("log-level", 'l', "", "log levels: debug, info, warn, error, dpanic, panic, fatal")
	configFile := set.StringLong("config", 'c', defaultConfigFile, "config file pathname")
	dbFile := set.StringLong("db", 'd', "", "run history DB file pathname")
	xlsxFile := set.StringLong("xlsx", 'x', "", "write the results workbook to this file")
	pdfFile := set.StringLong("pdf", 'p', "", "write the PDF summary to this file")
	jsonFile := set.StringLong("json", 'j', "", "write the results as JSON to this file, - for stdout")
	help := set.BoolLong("help", 'h', "print this help")

	if err := set.Getopt(args, nil); err != nil {
		set.PrintUsage(os.Stderr)
		return nil, errors.Wrap(err, "parsing command line")
	}
	if *help {
		set.PrintUsage(os.Stdout)
		return nil, ErrHelp
	}

	if err := readFile(cfg, *configFile); err != nil {
		return nil, err
	}
	logger.L().Infof("Using config file `%v`", *configFile)

	if *dbFile != "" {
		cfg.DBFile = *dbFile
	}
	if cfg.DBFile != "" {
		logger.L().Infof("Using DB file `%v`", cfg.DBFile)
	}
	if *xlsxFile != "" {
		cfg.Output.XLSX = *xlsxFile
	}
	if *pdfFile != "" {
		cfg.Output.PDF = *pdfFile
	}
	if *jsonFile != "" {
		cfg.Output.JSON = *jsonFile
	}

	cfg.FillDefaults()

	if *logLevel != "" {
		if err := cfg.LogLevel.Set(*logLevel); err != nil {
			logger.L().Errorf("Wrong log level `%v`: %v", *logLevel, err)
		}
	}
	logger.SetLogLevel(cfg.LogLevel)

	prettyPrint(cfg)

	return cfg, nil
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}

func readFile(cfg *Config, configFileName string) error {
	if !fileExists(configFileName) {
		return nil
	}

	f, err := os.Open(configFileName)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(cfg, data)
}

func unmarshal(cfg *Config, data []byte) error {
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
		if cfg.specified == nil {
			cfg.specified = make(map[string]bool)
		}
		collectSpecified(&doc, cfg.specified)
	}
	return nil
}
