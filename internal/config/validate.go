package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCutter(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCutter() error {
	if c.Cutter.Threshold < 1 || c.Cutter.Threshold > 20 {
		return errors.New("cutter.threshold must be between 1 and 20")
	}
	if c.Cutter.Margin < 0 || c.Cutter.Margin > 30 {
		return errors.New("cutter.margin must be between 0 and 30")
	}
	if c.Cutter.SilentSpeed < 1 {
		return errors.New("cutter.silent_speed must be positive")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	for name, value := range map[string]int{
		"workflow.queue_poll_interval": c.Workflow.QueuePollInterval,
		"workflow.probe_timeout":       c.Workflow.ProbeTimeout,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if c.Workflow.SettleDelay < 0 {
		return errors.New("workflow.settle_delay must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
