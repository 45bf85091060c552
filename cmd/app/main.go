package main

import (
    "context"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "syscall"

    "github.com/joho/godotenv"
    "github.com/rs/zerolog/log"

    "github.com/local/pagedeck/internal/ai"
    "github.com/local/pagedeck/internal/assembly"
    cfgpkg "github.com/local/pagedeck/internal/config"
    "github.com/local/pagedeck/internal/export"
    "github.com/local/pagedeck/internal/filetype"
    "github.com/local/pagedeck/internal/insight"
    logpkg "github.com/local/pagedeck/internal/logger"
    "github.com/local/pagedeck/internal/metrics"
    "github.com/local/pagedeck/internal/pdf"
    "github.com/local/pagedeck/internal/server"
    "github.com/local/pagedeck/internal/thumbs"
    web "github.com/local/pagedeck/internal/web"
    "github.com/local/pagedeck/internal/workspace"
)

// pdfCodec adapts the concrete pdfcpu codec to the assembly engine's
// capability interface.
type pdfCodec struct{ *pdf.Codec }

func (c pdfCodec) Open(data []byte) (assembly.Document, error) { return c.Codec.Open(data) }

func main() {
    _ = godotenv.Load()
    cfg := cfgpkg.FromEnv()

    // Init logging
    _ = logpkg.Init(logpkg.Options{
        Level: cfg.Logging.Level,
        Pretty: cfg.Logging.Pretty,
        File: cfg.Logging.File,
        MaxSizeMB: cfg.Logging.MaxSizeMB,
        MaxBackups: cfg.Logging.MaxBackups,
        MaxAgeDays: cfg.Logging.MaxAgeDays,
        Compress: cfg.Logging.Compress,
        SendToAxiom: cfg.Axiom.Send && cfg.Axiom.APIKey != "",
        AxiomAPIKey: cfg.Axiom.APIKey,
        AxiomOrgID: cfg.Axiom.OrgID,
        AxiomDataset: cfg.Axiom.Dataset,
        AxiomFlush: cfg.Axiom.FlushInterval,
    })
    defer logpkg.Close()

    metrics.Init()

    // Core: codec, workspace, assembly engine
    codec := pdf.NewCodec()
    ws := workspace.New(codec)
    engine := assembly.New(pdfCodec{codec})

    // Thumbnail cache: Redis when configured, in-process otherwise
    var thumbCache thumbs.Cache
    if cfg.Render.CacheRedisURL != "" {
        rc, err := thumbs.NewRedisCache(cfg.Render.CacheRedisURL, cfg.Render.CacheTTL)
        if err != nil {
            log.Fatal().Err(err).Msg("failed to init redis thumbnail cache")
        }
        defer rc.Close()
        thumbCache = rc
    } else {
        thumbCache = thumbs.NewMemoryCache(cfg.Render.CacheTTL)
    }

    renderer := thumbs.NewRenderer(cfg.Render.DPI, cfg.Render.JPEGQuality)
    pool := thumbs.NewPool(renderer, thumbCache, cfg.Render.Workers)
    defer pool.Stop()

    // Insight adapter over both provider clients
    analyzer := insight.New(cfg.Insight, ai.NewOpenAIClient(), ai.NewAnthropicClient())

    // Optional S3 export of assembled output
    var exporter *export.S3Exporter
    if cfg.Export.S3Bucket != "" {
        var err error
        exporter, err = export.NewS3Exporter(context.Background(), cfg.Export.S3Bucket, cfg.Export.S3Prefix)
        if err != nil {
            log.Fatal().Err(err).Msg("failed to init s3 exporter")
        }
    }

    srvImpl := server.New(server.Deps{
        Workspace:  ws,
        Engine:     engine,
        Detector:   filetype.New(),
        Renderer:   renderer,
        ThumbCache: thumbCache,
        Prefetch:   pool,
        Analyzer:   analyzer,
        Exporter:   exporter,
        Upload:     cfg.Upload,
    })
    mux := http.NewServeMux()
    srvImpl.RegisterRoutes(mux)
    mux.Handle("/metrics", metrics.Handler())

    // Dashboard
    dash := web.New()
    dash.RegisterRoutes(mux)

    srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: mux}

    go func(){
        log.Info().Msgf("HTTP server listening on :%s", cfg.Server.Port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatal().Err(err).Msg("http server error")
        }
    }()

    // Graceful shutdown
    stop := make(chan os.Signal, 1)
    signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
    <-stop
    ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
    defer cancel()
    _ = srv.Shutdown(ctx)
    fmt.Println("shutdown complete")
}
