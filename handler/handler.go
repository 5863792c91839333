// Package handler exposes the mail, sms and map relays as api gateway
// endpoints.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/medipay/relayfn/lambdautils"
	"github.com/medipay/relayfn/mail"
	"github.com/medipay/relayfn/proxy"
	"github.com/medipay/relayfn/sms"
	"github.com/medipay/relayfn/staticmap"
)

// Route patterns. Both the bare and the /api prefixed paths are served.
const (
	MailPattern = "(/api)?/mail"
	SMSPattern  = "(/api)?/sms"
	MapPattern  = "(/api)?/(map|naver-static)"
)

// Response messages.
const (
	msgServerError    = "서버 오류"
	msgSMSServerError = "서버 오류 발생"
	msgGeocodeFailed  = "Geocode failed"
	msgRasterFailed   = "Static map fetch failed"
	msgNotFound       = "Not Found"
)

var (
	mailCORS = proxy.CORS{AllowOrigin: "*", AllowMethods: "POST, OPTIONS", AllowHeaders: "Content-Type"}
	smsCORS  = proxy.CORS{AllowOrigin: "*", AllowMethods: "POST, OPTIONS", AllowHeaders: "Content-Type, Authorization"}
	mapCORS  = proxy.CORS{AllowOrigin: "*", AllowMethods: "GET, OPTIONS", AllowHeaders: "Content-Type"}

	// applied to responses that are not owned by an endpoint
	defaultCORS = proxy.CORS{AllowOrigin: "*"}
)

// MailSender delivers mail requests.
type MailSender interface {
	Send(ctx context.Context, req mail.Request) (mail.Result, error)
}

// SMSSender delivers sms requests.
type SMSSender interface {
	Send(ctx context.Context, req sms.Request) (sms.Result, error)
}

// MapRenderer renders static maps.
type MapRenderer interface {
	Render(ctx context.Context, params staticmap.Params) (staticmap.Image, error)
}

// Deps are the collaborators of the endpoints. They are shared by every
// request.
type Deps struct {
	Mail   MailSender
	SMS    SMSSender
	Map    MapRenderer
	Logger *zap.Logger
}

type handlers struct {
	mail   MailSender
	sms    SMSSender
	maps   MapRenderer
	logger *zap.Logger
}

// New returns a router serving the three endpoints. Callers should check
// Valid before use.
func New(deps Deps) *proxy.Router {
	h := &handlers{
		mail:   deps.Mail,
		sms:    deps.SMS,
		maps:   deps.Map,
		logger: deps.Logger,
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}

	router := &proxy.Router{}
	router.Endpoint(MailPattern, proxy.POST, mailCORS, h.sendMail)
	router.Endpoint(SMSPattern, proxy.POST, smsCORS, h.sendSMS)
	router.Endpoint(MapPattern, proxy.GET, mapCORS, h.renderMap)
	router.AddCatchAllHandler(h.notFound)
	router.AddErrorHandler(h.failed)

	return router
}

func (h *handlers) log(ctx context.Context) *zap.Logger {
	return h.logger.With(lambdautils.LogFields(ctx)...)
}

// requestLog scopes the logger to a matched request.
func (h *handlers) requestLog(rctx *proxy.RouteContext) *zap.Logger {
	return h.log(rctx.Context).With(
		zap.String("method", rctx.Method()),
		zap.String("path", rctx.Request.RawPath),
		zap.String("content_type", rctx.Header("Content-Type")))
}

// decode unmarshals a json body into v. An empty body leaves v untouched.
func decode(rctx *proxy.RouteContext, v interface{}) error {
	body, err := rctx.Body()
	if err != nil {
		return err
	}

	if strings.TrimSpace(body) == "" {
		return nil
	}

	return errors.Wrap(json.Unmarshal([]byte(body), v), "invalid json body")
}

func (h *handlers) sendMail(rctx *proxy.RouteContext) (events.APIGatewayProxyResponse, error) {
	logger := h.requestLog(rctx)

	var req mail.Request
	if err := decode(rctx, &req); err != nil {
		logger.Error("mail request rejected", zap.Error(err))
		return proxy.Error(http.StatusInternalServerError, msgServerError), nil
	}

	result, err := h.mail.Send(rctx.Context, req)
	if err != nil {
		logger.Error("mail error", zap.Error(err))
		return proxy.Error(http.StatusInternalServerError, msgServerError), nil
	}

	return proxy.JSON(http.StatusOK, result)
}

func (h *handlers) sendSMS(rctx *proxy.RouteContext) (events.APIGatewayProxyResponse, error) {
	logger := h.requestLog(rctx)

	var req sms.Request
	if err := decode(rctx, &req); err != nil {
		// a body that cannot be read carries no phone number
		logger.Warn("malformed sms request body", zap.Error(err))
		req = sms.Request{}
	}

	result, err := h.sms.Send(rctx.Context, req)
	if err == nil {
		return proxy.JSON(http.StatusOK, result)
	}

	if sms.IsValidation(err) {
		return proxy.Error(http.StatusBadRequest, errors.Cause(err).Error()), nil
	}

	if msg, ok := sms.GatewayMessage(err); ok {
		logger.Warn("sms rejected by gateway", zap.Error(err))
		return proxy.Error(http.StatusInternalServerError, msg), nil
	}

	logger.Error("sms error", zap.Error(err))
	return proxy.Error(http.StatusInternalServerError, msgSMSServerError), nil
}

func (h *handlers) renderMap(rctx *proxy.RouteContext) (events.APIGatewayProxyResponse, error) {
	logger := h.requestLog(rctx)

	img, err := h.maps.Render(rctx.Context, staticmap.ParseParams(rctx.Query()))
	if err == nil {
		return proxy.Binary(http.StatusOK, staticmap.ContentType, img.Data, map[string]string{
			"Cache-Control": staticmap.CacheControl,
		}), nil
	}

	switch {
	case errors.Is(err, staticmap.ErrGeocodeFailed):
		logger.Warn("geocode failed", zap.Error(err))
		return proxy.Error(http.StatusBadRequest, msgGeocodeFailed), nil
	case errors.Is(err, staticmap.ErrRasterFailed):
		logger.Warn("static map fetch failed", zap.Error(err))
		return proxy.Error(http.StatusBadRequest, msgRasterFailed), nil
	default:
		logger.Error("map error", zap.Error(err))
		return proxy.Error(http.StatusInternalServerError, msgServerError), nil
	}
}

func (h *handlers) notFound(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayProxyResponse, error) {
	return defaultCORS.Apply(proxy.Error(http.StatusNotFound, msgNotFound)), nil
}

func (h *handlers) failed(ctx context.Context, request events.APIGatewayV2HTTPRequest, err error) (events.APIGatewayProxyResponse, error) {
	h.log(ctx).Error("unhandled route error",
		zap.String("method", request.RequestContext.HTTP.Method),
		zap.String("path", request.RawPath),
		zap.Error(err))

	return defaultCORS.Apply(proxy.Error(http.StatusInternalServerError, msgServerError)), nil
}
