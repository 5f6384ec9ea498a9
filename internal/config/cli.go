package config

import "github.com/Alia5/padscope/internal/cmd"

// CLI is the root command tree. Values come from flags, env and the first
// config file found by configpaths.Candidates, in that order of precedence.
type CLI struct {
	ConfigFile string `name:"config" help:"Path to a JSON, YAML or TOML config file" type:"path" env:"PADSCOPE_CONFIG"`
	Log        Log    `embed:"" prefix:"log."`

	Run    cmd.Run           `cmd:"" default:"withargs" help:"Open the visualizer window"`
	Watch  cmd.Watch         `cmd:"" help:"Follow a controller in the terminal without a window"`
	Feed   cmd.Feed          `cmd:"" help:"Stream a local gamepad to a remote netpad listener"`
	Config cmd.ConfigCommand `cmd:"" help:"Configuration file helpers"`
}

type Log struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"PADSCOPE_LOG_LEVEL"`
	File    string `help:"Also write logs to this file" type:"path" env:"PADSCOPE_LOG_FILE"`
	RawFile string `help:"Write raw netpad frames as hex to this file" type:"path" env:"PADSCOPE_LOG_RAW_FILE"`
}
