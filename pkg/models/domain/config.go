package domain

import "fmt"

type ProfileSource string

const (
	ProfileSourceConfig      ProfileSource = "config"
	ProfileSourceCredentials ProfileSource = "credentials"
)

// ConfigProfile is a named AWS shared configuration profile.
type ConfigProfile struct {
	Name   string
	Source ProfileSource
	Region string
}

func (c ConfigProfile) String() string {
	return fmt.Sprintf("%s:%s", c.Source, c.Name)
}
