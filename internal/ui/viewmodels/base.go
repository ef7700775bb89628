package viewmodels

type BaseVM struct {
	Title       string
	Active      string
	ContentTmpl string
	BaseURL     string
	Theme       string
	Debug       bool
}
