// Package config는 서비스 설정 파일과 환경 변수를 읽어오는 패키지입니다.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config 인터페이스는 설정 값에 액세스하기 위한 메서드를 정의합니다.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	IsSet(key string) bool
	GetAll() map[string]interface{}
	// Decode는 전체 설정을 yaml 태그가 붙은 구조체로 디코딩합니다.
	Decode(out interface{}) error
}

type viperConfig struct {
	v *viper.Viper
}

func (c *viperConfig) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *viperConfig) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c *viperConfig) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *viperConfig) IsSet(key string) bool {
	return c.v.IsSet(key)
}

func (c *viperConfig) GetAll() map[string]interface{} {
	return c.v.AllSettings()
}

// Decode는 viper가 병합한 값(파일 + 환경 변수 + 기본값)을 yaml 태그 기준으로
// 대상 구조체에 풀어냅니다. 환경 변수 문자열은 숫자/bool/Duration으로 변환됩니다.
func (c *viperConfig) Decode(out interface{}) error {
	if err := c.v.Unmarshal(out, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	}); err != nil {
		return fmt.Errorf("설정 디코딩 실패: %w", err)
	}
	return nil
}

// 설정 디렉토리 경로
const configDir = "configs"

// Options는 Load 동작을 조정합니다.
type Options struct {
	// Defaults는 설정 파일에 값이 없을 때 사용할 기본값입니다. (키는 점 표기법)
	Defaults map[string]interface{}
}

// Load는 지정된 서비스 이름에 해당하는 설정 파일을 로드합니다.
//
// 탐색 순서: CONFIG_PATH 디렉토리 → configs/{APP_ENV} → configs/example
func Load(serviceName string, opts ...Options) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	for _, o := range opts {
		for key, value := range o.Defaults {
			v.SetDefault(key, value)
		}
	}

	// 환경 변수 바인딩 (예: ACCOUNTING_QUICKBOOKS_CLIENT_ID)
	v.SetEnvPrefix(strings.ToUpper(serviceName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join(configDir, env)
	}

	v.SetConfigName(serviceName)
	v.AddConfigPath(configPath)
	v.AddConfigPath(filepath.Join(configDir, "example"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !asNotFound(err, &notFound) {
			return nil, fmt.Errorf("설정 파일 로드 실패: %w", err)
		}
		// 설정 파일이 없어도 환경 변수와 기본값만으로 기동할 수 있습니다.
	}

	return &viperConfig{v: v}, nil
}

func asNotFound(err error, target *viper.ConfigFileNotFoundError) bool {
	nf, ok := err.(viper.ConfigFileNotFoundError)
	if ok {
		*target = nf
	}
	return ok
}
