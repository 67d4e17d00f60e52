package config

import (
	"encoding/json"
	"io/ioutil"

	"github.com/azd1997/ego/utils"
	"github.com/pkg/errors"

	"github.com/azd1997/emsg/common/log"
)

// 总配置
type Config struct {
	AC accountConfig `json:"account_config"`
	LC logConfig     `json:"log_config"`
}

// account配置
type accountConfig struct {
	Path string `json:"path"` // .json 后缀用json编码，其余gob
}

// 日志配置
type logConfig struct {
	LogLevel int  `json:"log_level"`
	LogColor bool `json:"log_color"`
}

const DefaultAccountPath = "./emsg-account.json"

func Default() *Config {
	return &Config{
		AC: accountConfig{Path: DefaultAccountPath},
		LC: logConfig{LogLevel: log.LogInfoLevel},
	}
}

// ParseConfig 读取json配置文件. 文件不存在时使用默认配置
func ParseConfig(cf string) (*Config, error) {
	if len(cf) == 0 {
		return nil, errors.New("miss config file")
	}

	exists, err := utils.FileExists(cf)
	if err != nil {
		return nil, errors.Wrap(err, "ParseConfig")
	}
	if !exists {
		return Default(), nil
	}

	jsonContent, err := ioutil.ReadFile(cf)
	if err != nil {
		return nil, errors.Wrap(err, "read config file failed")
	}

	conf := Default()
	if err := json.Unmarshal(jsonContent, conf); err != nil {
		return nil, errors.Wrap(err, "config parse failed")
	}

	if err := verifyConfig(conf); err != nil {
		return nil, err
	}

	return conf, nil
}

func verifyConfig(c *Config) error {
	if c.LC.LogLevel < log.LogErrorLevel || c.LC.LogLevel > log.LogDebugLevel {
		return errors.Errorf("invalid log level:%d", c.LC.LogLevel)
	}
	if c.AC.Path == "" {
		return errors.New("miss account path")
	}
	return nil
}
