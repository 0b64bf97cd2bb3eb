package app

import "errors"

var (
	ErrModelsNotReady = errors.New("models are still loading")
	ErrInference      = errors.New("inference failed")
)
