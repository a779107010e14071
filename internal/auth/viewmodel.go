package auth

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"smartTextVision/internal/session"
	"smartTextVision/internal/state"
	"smartTextVision/internal/validation"
	"smartTextVision/models"
	"smartTextVision/repository"
)

// Messages surfaced through AuthState and OperationResult.
const (
	MsgCredentialsRequired = "Email and password are required"
	MsgInvalidCredentials  = "Invalid email or password"
	MsgUserNotFound        = "User not found"
)

var (
	ErrNoCurrentUser = errors.New("no current user")
	ErrNotAdmin      = errors.New("only admin can perform this action")
	ErrClosed        = errors.New("view model closed")
)

const defaultOpTimeout = 5 * time.Second

type credentials struct {
	Email    string `validate:"required" label:"Email"`
	Password string `validate:"required" label:"Password"`
}

// SignUpInput carries the fields of a new account.
type SignUpInput struct {
	Name     string `validate:"required" label:"Name"`
	Email    string `validate:"required" label:"Email"`
	Password string `validate:"required" label:"Password"`
}

// Options configures a ViewModel. Zero values pick defaults.
type Options struct {
	Logger    *zap.Logger
	Session   session.Session
	OpTimeout time.Duration
}

// ViewModel exposes authentication state and the operations of the sign-in and
// admin screens. Work is launched on a scope that Close cancels.
type ViewModel struct {
	users     repository.Users
	chats     repository.Chats
	session   session.Session
	logger    *zap.Logger
	validate  *validation.Validator
	opTimeout time.Duration

	authState   *state.Value[AuthState]
	currentUser *state.Value[*models.User]

	scope  context.Context
	cancel context.CancelFunc

	// mu orders launches against Wait and Close.
	mu     sync.Mutex
	closed bool
	jobs   errgroup.Group
}

// NewViewModel builds a view-model and starts loading the session's user.
func NewViewModel(users repository.Users, chats repository.Chats, opts Options) *ViewModel {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Session == nil {
		opts.Session = session.Static("")
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = defaultOpTimeout
	}
	scope, cancel := context.WithCancel(context.Background())
	vm := &ViewModel{
		users:       users,
		chats:       chats,
		session:     opts.Session,
		logger:      opts.Logger.Named("AuthViewModel"),
		validate:    validation.New(),
		opTimeout:   opts.OpTimeout,
		authState:   state.NewValue(Idle()),
		currentUser: state.NewValue[*models.User](nil),
		scope:       scope,
		cancel:      cancel,
	}
	vm.loadCurrentUser()
	return vm
}

// AuthState is the observable sign-in state.
func (vm *ViewModel) AuthState() *state.Value[AuthState] { return vm.authState }

// CurrentUser is the observable signed-in user; nil when nobody is.
func (vm *ViewModel) CurrentUser() *state.Value[*models.User] { return vm.currentUser }

// Wait blocks until every launched operation has finished. Operations started
// while it waits are held back until it returns.
func (vm *ViewModel) Wait() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	_ = vm.jobs.Wait()
}

// Close cancels in-flight work and waits for it to stop. Later operations
// settle immediately with ErrClosed.
func (vm *ViewModel) Close() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.closed = true
	vm.cancel()
	_ = vm.jobs.Wait()
}

// launch runs fn on the view-model scope with the operation timeout applied.
// It reports false when the view-model is closed. fn must not launch.
func (vm *ViewModel) launch(parent context.Context, fn func(ctx context.Context)) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return false
	}
	vm.jobs.Go(func() error {
		ctx, cancel := context.WithTimeout(parent, vm.opTimeout)
		defer cancel()
		stop := context.AfterFunc(vm.scope, cancel)
		defer stop()
		fn(ctx)
		return nil
	})
	return true
}

func (vm *ViewModel) loadCurrentUser() {
	seen := vm.currentUser.Version()
	vm.launch(vm.scope, func(ctx context.Context) {
		u, err := vm.userForSession(ctx)
		switch {
		case errors.Is(err, session.ErrNoSession):
			vm.logger.Debug("No session, nobody signed in")
			u = nil
		case err != nil:
			vm.logger.Error("Error loading current user", zap.Error(err))
			u = nil
		}
		// A sign-in or sign-out that happened meanwhile takes precedence.
		vm.currentUser.SetIfVersion(seen, u)
	})
}

func (vm *ViewModel) userForSession(ctx context.Context) (*models.User, error) {
	email, err := vm.session.CurrentEmail(ctx)
	if err != nil {
		return nil, err
	}
	return vm.users.GetUserByEmail(ctx, email)
}

// RefreshCurrentUser reloads the current user from the session.
func (vm *ViewModel) RefreshCurrentUser() {
	vm.loadCurrentUser()
}

// SignIn checks the credentials against the store. The outcome is published on
// AuthState; on success the account becomes the current user, on failure
// nobody is signed in any more.
func (vm *ViewModel) SignIn(email, password string) {
	vm.authState.Set(Loading())
	ok := vm.launch(vm.scope, func(ctx context.Context) {
		if err := vm.validate.Struct(credentials{Email: email, Password: password}); err != nil {
			vm.failSignIn(MsgCredentialsRequired)
			return
		}
		u, err := vm.users.GetUserByEmail(ctx, email)
		if err != nil {
			vm.logger.Error("Sign-in error", zap.Error(err))
			vm.failSignIn("Sign-in failed: " + err.Error())
			return
		}
		// Plaintext comparison; passwords are stored as entered.
		if u == nil || u.Password != password {
			vm.failSignIn(MsgInvalidCredentials)
			return
		}
		if w, ok := vm.session.(session.Writer); ok {
			w.SetEmail(u.Email)
		}
		vm.currentUser.Set(u)
		vm.authState.Set(Succeeded(strconv.FormatInt(u.ID, 10)))
	})
	if !ok {
		vm.failSignIn("Sign-in failed: " + ErrClosed.Error())
	}
}

func (vm *ViewModel) failSignIn(msg string) {
	vm.forgetSession()
	vm.currentUser.Set(nil)
	vm.authState.Set(Failed(msg))
}

func (vm *ViewModel) forgetSession() {
	if w, ok := vm.session.(session.Writer); ok {
		w.SetEmail("")
	}
}

// SignOut resets the auth state and forgets the current user.
func (vm *ViewModel) SignOut() {
	vm.forgetSession()
	vm.authState.Set(Idle())
	vm.currentUser.Set(nil)
}

// SignUp creates a regular account. Only emptiness of the fields is checked.
func (vm *ViewModel) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	if err := vm.validate.Struct(in); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, vm.opTimeout)
	defer cancel()
	u := &models.User{Name: in.Name, Email: in.Email, Password: in.Password, Role: models.RoleUser}
	if _, err := vm.users.InsertUser(ctx, u); err != nil {
		vm.logger.Error("Sign-up error", zap.Error(err))
		return nil, err
	}
	return u, nil
}

func (vm *ViewModel) isAdmin() bool {
	return vm.currentUser.Get().IsAdmin()
}

// RequireAdmin returns the current user when it holds the admin role.
func (vm *ViewModel) RequireAdmin() (*models.User, error) {
	u := vm.currentUser.Get()
	if u == nil {
		return nil, ErrNoCurrentUser
	}
	if !u.IsAdmin() {
		return nil, ErrNotAdmin
	}
	return u, nil
}

// DeleteUser removes a user on behalf of an admin. The channel receives
// Loading and then one terminal result before it is closed.
func (vm *ViewModel) DeleteUser(ctx context.Context, userID int64) <-chan OperationResult[struct{}] {
	out := make(chan OperationResult[struct{}], 2)
	out <- Pending[struct{}]()
	ok := vm.launch(ctx, func(ctx context.Context) {
		defer close(out)
		if !vm.isAdmin() {
			out <- Unauthorized[struct{}]()
			return
		}
		u, err := vm.users.GetUserByID(ctx, userID)
		if err == nil && u == nil {
			out <- Errorf[struct{}](MsgUserNotFound)
			return
		}
		if err == nil {
			err = vm.users.DeleteUser(ctx, u)
		}
		if err != nil {
			vm.logger.Error("Error deleting user", zap.Int64("user_id", userID), zap.Error(err))
			out <- Errorf[struct{}]("Failed to delete user: %v", err)
			return
		}
		out <- Success(struct{}{})
	})
	if !ok {
		out <- Errorf[struct{}]("Failed to delete user: %v", ErrClosed)
		close(out)
	}
	return out
}

// ReadAllChats loads every message for an admin. The returned value starts
// at Loading and later holds the outcome.
func (vm *ViewModel) ReadAllChats() *state.Value[OperationResult[[]models.Message]] {
	return adminQuery(vm, "Error reading all chats", "Failed to load chats", vm.chats.GetAllMessages)
}

// ListUsers loads every account for an admin, like ReadAllChats.
func (vm *ViewModel) ListUsers() *state.Value[OperationResult[[]models.User]] {
	return adminQuery(vm, "Error listing users", "Failed to load users", vm.users.GetAllUsers)
}

func adminQuery[T any](vm *ViewModel, logMsg, errPrefix string, query func(context.Context) (T, error)) *state.Value[OperationResult[T]] {
	result := state.NewValue(Pending[T]())
	ok := vm.launch(vm.scope, func(ctx context.Context) {
		if !vm.isAdmin() {
			result.Set(Unauthorized[T]())
			return
		}
		data, err := query(ctx)
		if err != nil {
			vm.logger.Error(logMsg, zap.Error(err))
			result.Set(Errorf[T]("%s: %v", errPrefix, err))
			return
		}
		result.Set(Success(data))
	})
	if !ok {
		result.Set(Errorf[T]("%s: %v", errPrefix, ErrClosed))
	}
	return result
}

// ChatHistory returns the conversation between the current user and another user.
func (vm *ViewModel) ChatHistory(ctx context.Context, otherUserID int64) ([]models.Message, error) {
	me := vm.currentUser.Get()
	if me == nil {
		return nil, ErrNoCurrentUser
	}
	ctx, cancel := context.WithTimeout(ctx, vm.opTimeout)
	defer cancel()
	return vm.chats.GetChatHistory(ctx, me.ID, otherUserID)
}

// SendMessage stores a message from the current user to receiverID.
func (vm *ViewModel) SendMessage(ctx context.Context, receiverID int64, content string) (*models.Message, error) {
	me := vm.currentUser.Get()
	if me == nil {
		return nil, ErrNoCurrentUser
	}
	ctx, cancel := context.WithTimeout(ctx, vm.opTimeout)
	defer cancel()
	m := &models.Message{SenderID: me.ID, ReceiverID: receiverID, Timestamp: time.Now(), Content: content}
	if _, err := vm.chats.InsertMessage(ctx, m); err != nil {
		vm.logger.Error("Error sending message", zap.Int64("receiver_id", receiverID), zap.Error(err))
		return nil, err
	}
	return m, nil
}
