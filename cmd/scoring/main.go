package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/PIRSON21/scoring/internal/config"
	"github.com/PIRSON21/scoring/internal/http-server/handler/method"
	"github.com/PIRSON21/scoring/internal/lib/api/auth"
	resp "github.com/PIRSON21/scoring/internal/lib/api/response"
	"github.com/PIRSON21/scoring/internal/scoring"
	"github.com/PIRSON21/scoring/internal/storage/redis"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// cfg - конфиг сервера.
var cfg *config.Config

func main() {
	var configPath string
	flag.StringVar(&configPath, "path", "", "положение файла конфигурации")

	// чтение параметров
	flag.Parse()

	if configPath == "" {
		log.Fatal("не указано место файла конфигурации")
	}

	// получаем файл конфига
	cfg = config.MustCreateConfig(configPath)

	// logFile - буфер файла, в котором будут храниться логи.
	// Для каждого запуска свои логи.
	var logFile *os.File

	if cfg.Environment != envLocal {
		// создаю файл логирования, если нужен
		logFile = mustCreateLogFile()
		defer logFile.Close()
	}

	// создаю и задаю логер
	log := mustCreateLogger(cfg.Environment, logFile)

	log.Info("logger started successfully", slog.String("env", cfg.Environment))

	// подключение key-value хранилища скоринга
	store := redis.MustConnectStore(cfg)
	scoringService := scoring.New(store, log)

	// аутентификатор с солями из конфига
	authenticator := auth.New(cfg.Salt, cfg.AdminSalt)

	// установка роутера chi
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(middleware.Heartbeat("/ping"))
	router.Use(middleware.RedirectSlashes)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodPost,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	router.Post("/method", method.MethodHandler(log, scoringService, authenticator, cfg))

	// неизвестные пути отвечают конвертом ошибки, как и сам метод
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		resp.Fail(w, r, http.StatusNotFound, "")
	})

	// задание настроек сервера
	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  40 * time.Second,
		WriteTimeout: 40 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server started", slog.String("addr", srv.Addr))

	// запуск сервера
	if err := srv.ListenAndServe(); err != nil {
		log.Error("error while serving: ", slog.String("err", err.Error()))
		return
	}
}

// mustCreateLogger создает логер исходя из текущего окружения.
//
// Если логер не создастся, случится паника.
func mustCreateLogger(env string, logFile *os.File) *slog.Logger {
	var logger *slog.Logger
	switch env {
	case envLocal:
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		logger = slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		logger = slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log.Fatal("неправильное окружение")
	}

	return logger
}

// mustCreateLogFile создает файл для хранения логов в формате "DD.MM.YYYY hh.mm.ss".
//
// Если файл не создастся, случится паника.
func mustCreateLogFile() *os.File {
	err := os.Mkdir("logs/", os.ModeDir)
	if errors.Is(err, os.ErrExist) {
		log.Println("directory \"logs/\" already exists")
	} else if err != nil {
		log.Fatal("error while creating \"logs/\" directory: ", err)
	}

	fileName := time.Now().Format("02.01.2006 15.04.05")

	logFile, err := os.Create("./logs/" + fileName + ".json")
	if err != nil {
		log.Fatal("error while create log file "+fileName+": ", err)
	}

	return logFile
}
