package common

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	envPathStdin = "stdin"
)

// EnvMap reads configuration from a .env file (or stdin) and falls back to the process
// environment for keys the file does not define.
type EnvMap struct {
	path   string
	envMap map[string]string
}

func (em *EnvMap) GetEx(key string) (string, bool) {
	if v, ok := em.envMap[key]; ok && len(v) > 0 {
		return v, true
	}

	value := os.Getenv(key)
	return value, len(value) > 0
}

func (em *EnvMap) Get(key string) string {
	v, _ := em.GetEx(key)
	return v
}

func (em *EnvMap) Path() string {
	return em.path
}

func NewEnvMap(path string) (*EnvMap, error) {
	var envMap map[string]string

	if path == envPathStdin {
		var err error
		envMap, err = godotenv.Parse(os.Stdin)
		if err != nil {
			return nil, err
		}
	} else if len(path) > 0 {
		var err error
		envMap, err = godotenv.Read(path)
		if err != nil {
			return nil, err
		}
	}

	return &EnvMap{envMap: envMap, path: path}, nil
}
