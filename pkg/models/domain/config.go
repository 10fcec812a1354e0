package domain

import (
	"fmt"
	"time"
)

// APIProfile points the client at one deployment of the analysis API.
type APIProfile struct {
	Name    string
	BaseURL string
	Timeout time.Duration // zero means no client-side timeout
}

func (p APIProfile) String() string {
	return fmt.Sprintf("%s:%s", p.Name, p.BaseURL)
}
