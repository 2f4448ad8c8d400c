package config

import "errors"

type ConfigInitError struct {
	msg string
}

func (e *ConfigInitError) Error() string {
	return e.msg
}

// ErrUnknownKey is returned by Set for keys the config does not have.
var ErrUnknownKey = errors.New("unknown config key")
