package method

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"github.com/PIRSON21/scoring/internal/config"
	"github.com/PIRSON21/scoring/internal/lib/api/auth"
	"github.com/PIRSON21/scoring/internal/lib/api/request"
	resp "github.com/PIRSON21/scoring/internal/lib/api/response"
	"github.com/PIRSON21/scoring/internal/scoring"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.0 --name=Store
type Store interface {
	Score(ctx context.Context, p *scoring.Person) (float64, error)
	Interests(ctx context.Context, clientID int) ([]string, error)
}

// Имена бизнес-методов протокола.
const (
	methodOnlineScore      = "online_score"
	methodClientsInterests = "clients_interests"
)

// adminScore - фиксированный скор администратора, перекрывает посчитанный.
const adminScore = 42

// interestsWorkers - предел одновременных обращений к хранилищу интересов.
const interestsWorkers = 4

// MethodHandler обрабатывает POST /method: разбирает тело, прогоняет его
// через Dispatch и упаковывает результат в конверт ответа.
func MethodHandler(log *slog.Logger, store Store, authenticator *auth.Authenticator, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "http-server.handler.method.MethodHandler"

		reqID := requestID(r)
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", reqID),
		)

		var body map[string]interface{}
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			log.Error("error while decoding JSON", slog.String("err", err.Error()))
			resp.Fail(w, r, http.StatusBadRequest, "")
			return
		}

		reqCtx := map[string]interface{}{"request_id": reqID}

		result, code, err := Dispatch(r.Context(), log, body, reqCtx, store, authenticator)
		if err != nil {
			log.Error("error while calling store", slog.String("err", err.Error()))
			resp.ErrorHandler(w, r, cfg, err)
			return
		}

		log.Info("request handled", slog.Int("code", code), slog.Any("context", reqCtx))

		if code != http.StatusOK {
			message, _ := result.(string)
			resp.Fail(w, r, code, message)
			return
		}

		resp.OK(w, r, result)
	}
}

// Dispatch проводит конверт через все стадии: сборка, аутентификация,
// выбор бизнес-метода, валидация аргументов и вызов хранилища. Первая
// неудачная стадия завершает обработку.
//
// Ошибки валидации возвращаются сообщением с кодом 422, отказ
// аутентификации - пустым ответом с кодом 403. Ошибка хранилища уходит
// третьим значением, ее код выбирает транспорт. В reqCtx складывается
// диагностика для логов вызывающего: has и nclients.
func Dispatch(ctx context.Context, log *slog.Logger, body map[string]interface{}, reqCtx map[string]interface{}, store Store, authenticator *auth.Authenticator) (interface{}, int, error) {
	if len(body) == 0 {
		return "missing body", resp.StatusInvalidRequest, nil
	}

	envelope, err := request.NewMethodRequest(body)
	if err != nil {
		return err.Error(), resp.StatusInvalidRequest, nil
	}

	if !authenticator.Check(envelope) {
		log.Error("access prohibited",
			slog.String("account", envelope.Account),
			slog.String("login", envelope.Login),
			slog.String("method", envelope.Method),
		)

		return nil, http.StatusForbidden, nil
	}

	switch envelope.Method {
	case methodOnlineScore:
		return handleOnlineScore(ctx, log, envelope, reqCtx, store)
	case methodClientsInterests:
		return handleClientsInterests(ctx, log, envelope, reqCtx, store)
	}

	return fmt.Sprintf("unknown method %q", envelope.Method), resp.StatusInvalidRequest, nil
}

// handleOnlineScore выполняет метод online_score.
func handleOnlineScore(ctx context.Context, log *slog.Logger, envelope *request.MethodRequest, reqCtx map[string]interface{}, store Store) (interface{}, int, error) {
	const op = "http-server.handler.method.handleOnlineScore"

	log = log.With(slog.String("op", op))

	scoreReq, err := request.NewOnlineScoreRequest(envelope.Arguments)
	if err != nil {
		return err.Error(), resp.StatusInvalidRequest, nil
	}

	if !scoreReq.IsValid() {
		return "invalid request", resp.StatusInvalidRequest, nil
	}

	reqCtx["has"] = presentKeys(envelope.Arguments)

	person := &scoring.Person{
		FirstName: strVal(scoreReq.FirstName),
		LastName:  strVal(scoreReq.LastName),
		Email:     strVal(scoreReq.Email),
		Phone:     strVal(scoreReq.Phone),
		Birthday:  strVal(scoreReq.Birthday),
		Gender:    scoreReq.Gender,
	}

	score, err := store.Score(ctx, person)
	if err != nil {
		return nil, 0, xerrors.Errorf("%s: error while getting score: %w", op, err)
	}

	if envelope.IsAdmin() {
		score = adminScore
	}

	log.Debug("score calculated", slog.Float64("score", score))

	return map[string]float64{"score": score}, http.StatusOK, nil
}

// handleClientsInterests выполняет метод clients_interests. Интересы
// запрашиваются ограниченным пулом, результат собирается по идентификаторам.
func handleClientsInterests(ctx context.Context, log *slog.Logger, envelope *request.MethodRequest, reqCtx map[string]interface{}, store Store) (interface{}, int, error) {
	const op = "http-server.handler.method.handleClientsInterests"

	log = log.With(slog.String("op", op))

	interestsReq, err := request.NewClientsInterestsRequest(envelope.Arguments)
	if err != nil {
		return err.Error(), resp.StatusInvalidRequest, nil
	}

	if !interestsReq.IsValid() {
		return "invalid request", resp.StatusInvalidRequest, nil
	}

	ids := interestsReq.ClientIDs
	results := make([][]string, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(interestsWorkers)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			interests, err := store.Interests(gctx, id)
			if err != nil {
				return xerrors.Errorf("%s: error while getting interests of client %d: %w", op, id, err)
			}

			results[i] = interests

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	response := make(map[string][]string, len(ids))
	for i, id := range ids {
		response[strconv.Itoa(id)] = results[i]
	}

	reqCtx["nclients"] = len(ids)
	log.Debug("interests collected", slog.Int("nclients", len(ids)))

	return response, http.StatusOK, nil
}

// presentKeys собирает имена реально переданных аргументов: пустые строки
// и пустые списки не считаются переданными. Порядок отсортирован, потому
// что порядок обхода map в Go недетерминирован.
func presentKeys(arguments map[string]interface{}) []string {
	keys := make([]string, 0, len(arguments))
	for key, value := range arguments {
		switch v := value.(type) {
		case string:
			if v == "" {
				continue
			}
		case []interface{}:
			if len(v) == 0 {
				continue
			}
		}

		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

// requestID берет идентификатор запроса из заголовка X-Request-ID, затем
// у middleware chi, иначе генерирует новый.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}

	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}

	return uuid.New().String()
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
