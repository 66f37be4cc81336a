package actors

import (
	stdctx "context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Message types for account operations
type (
	SignUpMsg struct {
		Username string
		Email    string
		Password string
	}

	SignInMsg struct {
		Email    string
		Password string
	}

	UpdateAboutMsg struct {
		UserID uuid.UUID
		About  string
	}

	BookmarkMsg struct {
		UserID uuid.UUID
		PostID string
	}

	UnbookmarkMsg struct {
		UserID uuid.UUID
		PostID string
	}
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// AccountActor serializes account mutations: sign-up duplicate checks,
// credential verification, and bookmark toggles.
type AccountActor struct {
	store   Store
	metrics *utils.MetricsCollector
}

func NewAccountActor(store Store, metrics *utils.MetricsCollector) actor.Actor {
	return &AccountActor{store: store, metrics: metrics}
}

func (a *AccountActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		slog.Debug("account actor started")
	case *SignUpMsg:
		a.handleSignUp(context, msg)
	case *SignInMsg:
		a.handleSignIn(context, msg)
	case *UpdateAboutMsg:
		if err := a.store.UpdateAbout(stdctx.Background(), msg.UserID, msg.About); err != nil {
			context.Respond(asReplyError(err))
			return
		}
		context.Respond(true)
	case *BookmarkMsg:
		a.handleBookmark(context, msg, true)
	case *UnbookmarkMsg:
		a.handleBookmark(context, msg, false)
	}
}

func (a *AccountActor) handleSignUp(context actor.Context, msg *SignUpMsg) {
	startTime := time.Now()

	if msg.Username == "" || msg.Email == "" || msg.Password == "" {
		context.Respond(utils.NewValidationError("username, email and password are required"))
		return
	}
	if !usernamePattern.MatchString(msg.Username) {
		context.Respond(utils.NewValidationError("forbidden characters in username"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(msg.Password), bcrypt.DefaultCost)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "failed to hash password", err))
		return
	}

	user := &models.User{
		ID:             uuid.New(),
		Username:       strings.ToLower(msg.Username),
		Email:          strings.ToLower(msg.Email),
		HashedPassword: string(hashed),
		SignUpDate:     time.Now().UTC(),
		Bookmarks:      []string{},
	}

	if err := a.store.CreateUser(stdctx.Background(), user); err != nil {
		context.Respond(asReplyError(err))
		return
	}

	slog.Info("user registered", "username", user.Username)
	a.metrics.AddOperationLatency("sign_up", time.Since(startTime))
	context.Respond(user)
}

func (a *AccountActor) handleSignIn(context actor.Context, msg *SignInMsg) {
	startTime := time.Now()

	// Unknown email and wrong password produce the same reply so the
	// response never reveals whether an account exists.
	user, err := a.store.GetUserByEmail(stdctx.Background(), msg.Email)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrUserNotFound) {
			context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "invalid credentials", nil))
			return
		}
		context.Respond(asReplyError(err))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(msg.Password)); err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "invalid credentials", nil))
		return
	}

	a.metrics.AddOperationLatency("sign_in", time.Since(startTime))
	context.Respond(user)
}

func (a *AccountActor) handleBookmark(context actor.Context, msg interface{}, adding bool) {
	startTime := time.Now()

	var err error
	if adding {
		m := msg.(*BookmarkMsg)
		err = a.store.AddBookmark(stdctx.Background(), m.UserID, m.PostID)
	} else {
		m := msg.(*UnbookmarkMsg)
		err = a.store.RemoveBookmark(stdctx.Background(), m.UserID, m.PostID)
	}
	if err != nil {
		context.Respond(asReplyError(err))
		return
	}

	a.metrics.AddOperationLatency("bookmark_toggle", time.Since(startTime))
	context.Respond(true)
}

// asReplyError keeps AppError replies intact and wraps anything else as a
// database failure so raw store errors never reach a client.
func asReplyError(err error) *utils.AppError {
	if appErr, ok := utils.AsAppError(err); ok {
		return appErr
	}
	return utils.NewDatabaseError(err)
}
