package engine

import (
	"errors"
	"strings"

	"github.com/buxx/rollgui2-sub000/internal/transport"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

const (
	CreateCharacterURL = "/_describe/character/create"
	CreateAccountURL   = "/account/create"

	wrongCredentialsMessage = "Identifiants incorrects"
	AccountCreatedNotice    = "Compte créé, identifiez-vous"
)

// Поля формы входа.
const (
	FieldLogin = iota
	FieldPassword
)

// Root - экран входа: логин, пароль, создание аккаунта, выход.
type Root struct {
	client Client

	Login    string
	Password string
	Focus    int
	Notice   string
	Error    string

	autoLogin bool
	pending   *transport.Handle
	account   Client
}

// NewRoot - client без учетных данных. Если логин и пароль уже известны
// (флаги командной строки), вход запускается на первом тике.
func NewRoot(client Client, login, password, notice string) *Root {
	return &Root{
		client:    client,
		Login:     login,
		Password:  password,
		Notice:    notice,
		autoLogin: login != "" && password != "",
	}
}

func (r *Root) Kind() Kind { return KindRoot }

// Waiting - запрос входа в полете.
func (r *Root) Waiting() bool {
	return r.pending != nil
}

func (r *Root) Tick(_ Frame, inputs []Input) []Message {
	if r.autoLogin {
		r.autoLogin = false
		r.submit()
	}

	for _, in := range inputs {
		if msgs := r.handle(in); len(msgs) > 0 {
			return msgs
		}
	}

	return r.pollLogin()
}

func (r *Root) handle(in Input) []Message {
	switch in := in.(type) {
	case Button:
		switch in.ID {
		case ButtonLogin:
			r.submit()
		case ButtonCreateAccount:
			return []Message{SetLoadDescriptionEngine{
				Session: Session{Client: r.client},
				Request: DescriptionRequest{URL: CreateAccountURL},
			}}
		case ButtonQuit:
			return []Message{Quit{}}
		}
	case KeyPress:
		switch in.Key {
		case KeyTab, KeyBacktab, KeyUp, KeyDown:
			r.Focus = 1 - r.Focus
		case KeyEnter:
			if r.Focus == FieldLogin {
				r.Focus = FieldPassword
			} else {
				r.submit()
			}
		case KeyBackspace:
			field := r.focused()
			if n := len([]rune(*field)); n > 0 {
				*field = string([]rune(*field)[:n-1])
			}
		case KeyRune:
			field := r.focused()
			*field += string(in.Rune)
		case KeyEscape:
			return []Message{Quit{}}
		}
	}
	return nil
}

func (r *Root) focused() *string {
	if r.Focus == FieldPassword {
		return &r.Password
	}
	return &r.Login
}

func (r *Root) submit() {
	if r.pending != nil {
		return
	}
	if r.Login == "" || r.Password == "" {
		r.Error = "Renseignez l'identifiant et le mot de passe"
		return
	}
	r.Error = ""
	r.account = r.client.WithCredentials(r.Login, r.Password)
	r.pending = r.account.CurrentCharacterID()
	logger.Log.WithField("login", r.Login).Info("Login requested")
}

func (r *Root) pollLogin() []Message {
	if r.pending == nil {
		return nil
	}
	res, ok := r.pending.Poll()
	if !ok {
		return nil
	}
	r.pending = nil

	if res.Err != nil {
		if errors.Is(res.Err, transport.ErrUnauthorized) {
			r.Error = wrongCredentialsMessage
			return nil
		}
		return fail(transport.Message(res.Err))
	}

	characterID := strings.Trim(strings.TrimSpace(string(res.Body)), `"`)
	if characterID == "" {
		logger.Log.Info("Account has no character, open character creation")
		return []Message{SetLoadDescriptionEngine{
			Session: Session{Client: r.account},
			Request: DescriptionRequest{URL: CreateCharacterURL},
		}}
	}
	return []Message{SetLoadZoneEngine{Session: Session{Client: r.account, CharacterID: characterID}}}
}
