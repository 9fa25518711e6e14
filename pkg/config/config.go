// Package config는 애플리케이션 설정을 관리하는 패키지입니다.
// 우선순위: 환경 변수 > 설정 파일 > 기본값
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 인터페이스는 설정 값에 액세스하기 위한 메서드를 정의합니다.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetInt64(key string) int64
	GetBool(key string) bool
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string
	IsSet(key string) bool
	GetAll() map[string]interface{}
}

// viperConfig는 viper를 사용하여 Config 인터페이스를 구현합니다.
type viperConfig struct {
	v *viper.Viper
}

func (c *viperConfig) GetString(key string) string { return c.v.GetString(key) }
func (c *viperConfig) GetInt(key string) int { return c.v.GetInt(key) }
func (c *viperConfig) GetInt64(key string) int64 { return c.v.GetInt64(key) }
func (c *viperConfig) GetBool(key string) bool { return c.v.GetBool(key) }
func (c *viperConfig) GetDuration(key string) time.Duration { return c.v.GetDuration(key) }
func (c *viperConfig) GetStringSlice(key string) []string { return c.v.GetStringSlice(key) }
func (c *viperConfig) IsSet(key string) bool { return c.v.IsSet(key) }
func (c *viperConfig) GetAll() map[string]interface{} { return c.v.AllSettings() }

// Option은 Load 동작을 조정합니다.
type Option func(*viper.Viper) error

// WithDefaults는 키별 기본값을 등록합니다.
func WithDefaults(defaults map[string]interface{}) Option {
	return func(v *viper.Viper) error {
		for key, value := range defaults {
			v.SetDefault(key, value)
		}
		return nil
	}
}

// WithEnvBindings는 설정 키에 환경 변수 이름을 직접 연결합니다.
// 앞에 있는 환경 변수가 우선합니다.
func WithEnvBindings(bindings map[string][]string) Option {
	return func(v *viper.Viper) error {
		for key, envs := range bindings {
			args := append([]string{key}, envs...)
			if err := v.BindEnv(args...); err != nil {
				return fmt.Errorf("환경 변수 바인딩 실패 (%s): %w", key, err)
			}
		}
		return nil
	}
}

// 설정 디렉토리 경로
const configDir = "configs"

// Load는 지정된 서비스 이름에 해당하는 설정 파일을 로드합니다.
// configs/{APP_ENV}/{service}.yaml, configs/example/{service}.yaml 순서로 찾고,
// 파일이 없으면 환경 변수와 기본값만 사용합니다.
func Load(serviceName string, opts ...Option) (Config, error) {
	v := viper.New()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev" // 기본 환경은 dev
	}

	v.SetConfigType("yaml")

	// 환경 변수 바인딩 설정: CHECKOUT_SERVER_HTTP_PORT → server.http.port
	v.SetEnvPrefix(strings.ToUpper(serviceName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}

	v.SetConfigName(serviceName)
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		v.AddConfigPath(configPath)
	} else {
		v.AddConfigPath(filepath.Join(configDir, env))
		v.AddConfigPath(filepath.Join(configDir, "example"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("설정 파일 로드 실패: %w", err)
		}
	}

	return &viperConfig{v: v}, nil
}
