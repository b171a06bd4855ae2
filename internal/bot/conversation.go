package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"forex-signal-bot/internal/domain"
	"forex-signal-bot/internal/i18n"
	"forex-signal-bot/internal/session"
)

// Callback payloads carried by inline buttons.
const (
	languageCallbackPrefix = "lang_"
	horizonCallbackPrefix  = "horizon_"
)

type Analyzer interface {
	Analyze(ctx context.Context, pair string, horizon domain.Horizon) (*domain.Analysis, error)
}

type Authorizer interface {
	Authorized(userID int64, username string) bool
}

// Responder delivers output for one inbound event. Edit rewrites the message
// that carried the pressed button; Acknowledge answers the button press.
type Responder interface {
	Reply(text string, buttons []Button) error
	Edit(text string, buttons []Button) error
	Acknowledge(text string) error
}

type Button struct {
	Text string
	Data string
}

type User struct {
	ID       int64
	Username string
}

// Conversation drives the per-user flow: language, pair, horizon, analysis.
type Conversation struct {
	sessions *session.Store
	analyzer Analyzer
	auth     Authorizer
	catalog  *i18n.Catalog
	contact  string
	log      zerolog.Logger
}

func NewConversation(
	sessions *session.Store,
	analyzer Analyzer,
	auth Authorizer,
	catalog *i18n.Catalog,
	supportContact string,
	log zerolog.Logger,
) *Conversation {
	return &Conversation{
		sessions: sessions,
		analyzer: analyzer,
		auth:     auth,
		catalog:  catalog,
		contact:  strings.TrimSpace(supportContact),
		log:      log.With().Str("component", "conversation").Logger(),
	}
}

func (c *Conversation) HandleLanguageStart(_ context.Context, u User, r Responder) error {
	sess := c.sessions.Update(u.ID, func(s *session.Session) {
		s.Username = u.Username
		if s.State == session.StateInit || s.State == session.StateIdle {
			s.State = session.StateLangChoicePending
		}
	})

	buttons := make([]Button, 0, len(domain.SupportedLanguages))
	for _, lang := range domain.SupportedLanguages {
		buttons = append(buttons, Button{
			Text: c.catalog.Text(lang, i18n.KeyLanguageButton),
			Data: languageCallbackPrefix + string(lang),
		})
	}
	return r.Reply(c.catalog.Text(c.language(sess), i18n.KeyLanguagePrompt), buttons)
}

func (c *Conversation) HandleLanguageChoice(_ context.Context, u User, data string, r Responder) error {
	lang, err := domain.ParseLanguage(strings.TrimPrefix(data, languageCallbackPrefix))
	if err != nil {
		c.log.Warn().Int64("user_id", u.ID).Str("data", data).Msg("unknown language callback")
		return r.Acknowledge("")
	}
	if err := r.Acknowledge(""); err != nil {
		c.log.Warn().Err(err).Msg("acknowledge language callback")
	}

	c.sessions.Update(u.ID, func(s *session.Session) {
		s.Username = u.Username
		s.Language = lang
		if s.State == session.StateInit || s.State == session.StateLangChoicePending {
			s.State = session.StateIdle
		}
	})
	return r.Edit(c.catalog.Text(lang, i18n.KeyLanguageSet), nil)
}

// HandleHorizonStart gates pair entry on the allow-list.
func (c *Conversation) HandleHorizonStart(_ context.Context, u User, r Responder) error {
	sess := c.sessions.Get(u.ID)
	lang := c.language(sess)

	if c.auth == nil || !c.auth.Authorized(u.ID, u.Username) {
		c.log.Info().Int64("user_id", u.ID).Str("username", u.Username).Err(domain.ErrUnauthorized).Msg("refused pair entry")
		return r.Reply(c.refusal(lang), nil)
	}

	busy := false
	c.sessions.Update(u.ID, func(s *session.Session) {
		s.Username = u.Username
		if s.State == session.StateAnalyzing {
			busy = true
			return
		}
		s.AwaitingPair = true
		s.State = session.StateAwaitingPair
	})
	if busy {
		return r.Reply(c.catalog.Text(lang, i18n.KeyBusy), nil)
	}
	return r.Reply(c.catalog.Text(lang, i18n.KeyPairPrompt), nil)
}

// HandleText stores the pair when one is expected and ignores any other text.
// Slash commands never count as a pair.
func (c *Conversation) HandleText(_ context.Context, u User, text string, r Responder) error {
	if strings.HasPrefix(strings.TrimSpace(text), "/") {
		return nil
	}
	accepted := false
	sess := c.sessions.Update(u.ID, func(s *session.Session) {
		if !s.AwaitingPair {
			return
		}
		accepted = true
		s.Pair = strings.ToUpper(text)
		s.AwaitingPair = false
		s.State = session.StateAwaitingHorizon
	})
	if !accepted {
		return nil
	}

	lang := c.language(sess)
	buttons := make([]Button, 0, len(domain.SupportedHorizons))
	for _, h := range domain.SupportedHorizons {
		buttons = append(buttons, Button{
			Text: c.catalog.HorizonLabel(lang, h),
			Data: horizonCallbackPrefix + string(h),
		})
	}
	return r.Reply(c.catalog.Text(lang, i18n.KeyHorizonPrompt, sess.Pair), buttons)
}

// HandleHorizonChoice runs the analysis for the stored pair and edits the
// prompt message into the result.
func (c *Conversation) HandleHorizonChoice(ctx context.Context, u User, data string, r Responder) error {
	horizon, err := domain.ParseHorizon(strings.TrimPrefix(data, horizonCallbackPrefix))
	if err != nil {
		c.log.Warn().Int64("user_id", u.ID).Str("data", data).Msg("unknown horizon callback")
		return r.Acknowledge("")
	}

	var (
		busy    bool
		missing bool
	)
	sess := c.sessions.Update(u.ID, func(s *session.Session) {
		switch {
		case s.State == session.StateAnalyzing:
			busy = true
		case s.Pair == "":
			missing = true
			s.AwaitingPair = false
			s.State = session.StateIdle
		default:
			s.Horizon = horizon
			s.AwaitingPair = false
			s.State = session.StateAnalyzing
		}
	})
	lang := c.language(sess)

	if busy {
		return r.Acknowledge(c.catalog.Text(lang, i18n.KeyBusy))
	}
	if err := r.Acknowledge(""); err != nil {
		c.log.Warn().Err(err).Msg("acknowledge horizon callback")
	}
	if missing {
		c.log.Info().Int64("user_id", u.ID).Err(domain.ErrSessionDataMissing).Msg("horizon chosen without pair")
		return r.Edit(c.catalog.Text(lang, i18n.KeySessionMissing), nil)
	}

	defer c.sessions.Update(u.ID, func(s *session.Session) {
		if s.State == session.StateAnalyzing {
			s.State = session.StateIdle
		}
	})

	if err := r.Edit(c.catalog.Text(lang, i18n.KeyAnalyzing), nil); err != nil {
		c.log.Warn().Err(err).Msg("edit analyzing notice")
	}

	analysis, err := c.analyzer.Analyze(ctx, sess.Pair, horizon)
	if err != nil {
		c.log.Error().Err(err).Int64("user_id", u.ID).Str("pair", sess.Pair).Str("horizon", string(horizon)).Msg("analysis failed")
		return r.Edit(c.errorText(lang, err), nil)
	}
	return r.Edit(c.resultText(lang, analysis), nil)
}

func (c *Conversation) HandleHelp(_ context.Context, u User, r Responder) error {
	return r.Reply(c.catalog.Text(c.language(c.sessions.Get(u.ID)), i18n.KeyHelp), nil)
}

func (c *Conversation) language(s session.Session) domain.Language {
	if s.Language == "" {
		return c.catalog.Fallback()
	}
	return s.Language
}

func (c *Conversation) refusal(lang domain.Language) string {
	text := c.catalog.Text(lang, i18n.KeyUnauthorized)
	if c.contact != "" {
		text += "\n\n" + c.contact
	}
	return text
}

func (c *Conversation) resultText(lang domain.Language, a *domain.Analysis) string {
	return c.catalog.Text(lang, i18n.KeyResult,
		a.Pair,
		c.catalog.HorizonLabel(lang, a.Horizon),
		c.catalog.DirectionLabel(lang, a.Result.Direction),
		a.Result.TakeProfit.StringFixed(2),
		a.Result.StopLoss.StringFixed(2),
	)
}

func (c *Conversation) errorText(lang domain.Language, err error) string {
	var (
		unavailable domain.ProviderUnavailableError
		rejected    domain.ProviderRejectedError
		malformed   domain.MalformedPayloadError
	)
	switch {
	case errors.As(err, &unavailable):
		return c.catalog.Text(lang, i18n.KeyErrorUnavailable, unavailable.Status)
	case errors.As(err, &rejected):
		return c.catalog.Text(lang, i18n.KeyErrorRejected, rejected.Reason)
	case errors.As(err, &malformed):
		return c.catalog.Text(lang, i18n.KeyErrorMalformed, string(malformed.Indicator))
	case errors.Is(err, domain.ErrSessionDataMissing):
		return c.catalog.Text(lang, i18n.KeySessionMissing)
	}
	return c.catalog.Text(lang, i18n.KeyErrorGeneric)
}
