package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// DefaultEnvFiles는 LoadDotEnv가 기본으로 찾는 .env 파일 목록입니다.
var DefaultEnvFiles = []string{".env", "../.env"}

// LoadDotEnv는 존재하는 .env 파일들을 읽어 환경 변수로 등록합니다.
// 이미 설정된 환경 변수는 덮어쓰지 않으며, 파일이 없으면 건너뜁니다.
func LoadDotEnv(files ...string) ([]string, error) {
	if len(files) == 0 {
		files = DefaultEnvFiles
	}

	var loaded []string
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf(".env 파일 로드 실패 (%s): %w", file, err)
		}
		loaded = append(loaded, file)
	}
	return loaded, nil
}
