package main

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ib-77/mill/pkg/mill"
)

func newServeCmd() *cobra.Command {
	var addr string
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			slog.Info("listening", "addr", addr)
			return newRouter(cfg).Run(addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to pipeline config yaml")
	return cmd
}

type processRequest struct {
	Text     string         `json:"text" binding:"required"`
	Plugins  []string       `json:"plugins"`
	Settings map[string]any `json:"settings"`
}

type processResponse struct {
	Output   string   `json:"output"`
	FileID   string   `json:"file_id"`
	Messages []string `json:"messages,omitempty"`
}

func newRouter(base *Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	router.POST("/process", func(c *gin.Context) {
		var req processRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		cfg := &Config{
			Plugins:       req.Plugins,
			Settings:      req.Settings,
			EOFNewline:    base.EOFNewline,
			LongLineLimit: base.LongLineLimit,
		}
		if len(cfg.Plugins) == 0 {
			cfg.Plugins = base.Plugins
		}
		proc, err := buildProcessor(cfg)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		res, err := proc.Process(c.Request.Context(), req.Text, mill.Settings(cfg.Settings))
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		resp := processResponse{Output: res.Output, FileID: res.File.ID().String()}
		for _, m := range res.File.Messages() {
			resp.Messages = append(resp.Messages, m.String())
		}
		c.JSON(http.StatusOK, resp)
	})

	return router
}
