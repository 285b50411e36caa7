/*
 * Copyright (c) 2024 Johan Stenstam, johan.stenstam@internetstiftelsen.se
 */

package dsboot

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Log struct {
		File string `yaml:"file"`
	} `yaml:"log"`
	Dsboot DsbootConf `yaml:"dsboot"`
}

type DsbootConf struct {
	Nameservers []string `validate:"dive,required" yaml:"nameservers"`
	ZoneDir     string   `validate:"required,dir" yaml:"zonedir"`
	ReadFiles   bool     `yaml:"readfiles"`
	WriteFiles  bool     `yaml:"writefiles"`
}

// SetConfigDefaults installs the defaults that apply when neither the config
// file nor the command line say otherwise.
func SetConfigDefaults(v *viper.Viper) {
	if v == nil {
		v = viper.GetViper()
	}
	v.SetDefault("dsboot.zonedir", ".")
	v.SetDefault("dsboot.readfiles", false)
	v.SetDefault("dsboot.writefiles", false)
}

func ValidateConfig(v *viper.Viper, cfgfile string) (*Config, error) {
	var config Config

	if v == nil {
		v = viper.GetViper()
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("ValidateConfig: Unmarshal error: %v", err)
	}

	var configsections = make(map[string]interface{}, 2)

	configsections["log"] = config.Log
	configsections["dsboot"] = config.Dsboot

	if err := ValidateBySection(configsections, cfgfile); err != nil {
		return nil, err
	}
	return &config, nil
}

func ValidateBySection(configsections map[string]interface{}, cfgfile string) error {
	validate := validator.New()

	for k, data := range configsections {
		if Globals.Debug {
			log.Printf("%s: Validating config for %s section\n", strings.ToUpper(Globals.App.Name), k)
		}
		if err := validate.Struct(data); err != nil {
			return fmt.Errorf("config %q, section %s: invalid attributes:\n%v", cfgfile, k, err)
		}
	}
	return nil
}
