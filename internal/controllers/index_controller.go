package controllers

import (
	"bytes"
	"embed"
	"ghstats/internal/providers"
	"ghstats/internal/structures"
	"html/template"
	"net/http"
)

//go:embed templates/index.html.tmpl
var indexFS embed.FS

var indexTemplate = template.Must(template.ParseFS(indexFS, "templates/index.html.tmpl"))

type endpointDoc struct {
	Method      string
	Path        string
	Description string
}

type indexView struct {
	AppName     string
	SnapshotTTL string
	Endpoints   []endpointDoc
}

// IndexController serves the landing page that documents the API.
type IndexController struct {
	logger providers.Logger
	page   []byte
}

func NewIndexController(conf *structures.Config, logger providers.Logger) (*IndexController, error) {
	endpoints := []endpointDoc{
		{http.MethodGet, "/stats/{username}", "JSON snapshot for a user"},
		{http.MethodGet, "/stats/{username}/svg", "SVG card for a user"},
		{http.MethodGet, "/health", "liveness and snapshot cache status"},
	}
	if conf.Metrics.Enabled {
		endpoints = append(endpoints, endpointDoc{http.MethodGet, "/metrics", "Prometheus metrics"})
	}

	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, indexView{
		AppName:     conf.AppName,
		SnapshotTTL: conf.SnapshotCache.TTL.String(),
		Endpoints:   endpoints,
	})
	if err != nil {
		return nil, err
	}
	return &IndexController{logger: logger, page: buf.Bytes()}, nil
}

func (ic *IndexController) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(ic.page); err != nil {
		ic.logger.Debugf(providers.TypeHttp, "Failed to write landing page: %s", err)
	}
}
