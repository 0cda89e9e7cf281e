package main

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v2"

	"psxpad/host/serial"
)

type appConfig struct {
	Serial serial.Config `yaml:"serial"`

	// Print every parsed event, not just mode changes, stats and traces
	Verbose bool `yaml:"verbose"`

	// Stop when the pad boots more than this many times (0 = never)
	MaxBoots int `yaml:"max_boots"`
}

func (c *appConfig) load(path string) error {
	log.Printf("loading config file: %s\n", path)
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not open config file: %v", err)
	}
	if err = yaml.UnmarshalStrict(yamlFile, c); err != nil {
		return fmt.Errorf("could not parse config file: %v", err)
	}
	return nil
}
