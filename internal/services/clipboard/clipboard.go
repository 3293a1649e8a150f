// Package clipboard copies finished reports to the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
)

// Copier places report text on the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier via github.com/atotto/clipboard.
type Service struct{}

// NewService constructs the system clipboard backed Service.
func NewService() *Service {
	return &Service{}
}

// Copy replaces the clipboard contents with text.
func (service *Service) Copy(text string) error {
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)
