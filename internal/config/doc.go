// Package config loads vimcore settings.
//
// Settings are layered, later layers overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. Config files, TOML or YAML by extension, in the order given
//  3. VIMCORE_ environment variables
//
// The merged result is decoded into a typed Config and validated. Unknown
// keys are rejected so typos surface as errors instead of being ignored.
//
// # Basic Usage
//
//	cfg, err := config.Load(config.DefaultPaths()...)
//	if err != nil {
//	    return err
//	}
//	sw := cfg.Editor.ShiftWidth
//
// # Live Reload
//
//	w, err := config.Watch(paths, func(cfg *config.Config, err error) {
//	    // apply cfg
//	})
//	defer w.Close()
//
// # Example config.toml
//
//	[editor]
//	shiftwidth = 2
//	expandtab = true
//	clipboard = "unnamedplus"
//	wrapscan = true
//	history_size = 1000
//	start_mode = "normal"
//
//	[logging]
//	level = "debug"
//	file = "/tmp/vimcore.log"
//
//	[plugins]
//	enabled = true
//	init = "~/.config/vimcore/init.lua"
//	timeout = "5s"
package config
