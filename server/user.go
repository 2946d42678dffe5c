package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jacobpatterson1549/mexican-train/db/user"
	"github.com/jacobpatterson1549/mexican-train/server/log"
)

// userCreateHandler creates a user, adding it to the database.
func userCreateHandler(userDao UserDao, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.FormValue("username")
		password := r.FormValue("password_confirm")
		u := user.User{
			Username: username,
			Password: password,
		}
		ctx := r.Context()
		if err := userDao.Create(ctx, u); err != nil {
			writeInternalError(err, log, w)
		}
	}
}

// userLoginHandler signs a user in, writing the token to the response.
func userLoginHandler(userDao UserDao, tokenizer Tokenizer, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.FormValue("username")
		password := r.FormValue("password")
		u := user.User{
			Username: username,
			Password: password,
		}
		ctx := r.Context()
		u2, err := userDao.Read(ctx, u)
		if err != nil {
			handleUserDaoError(w, err, log)
			return
		}
		token, err := tokenizer.Create(u2.Username, u2.Points)
		if err != nil {
			writeInternalError(err, log, w)
			return
		}
		if _, err := w.Write([]byte(token)); err != nil {
			err = fmt.Errorf("writing authorization token: %w", err)
			writeInternalError(err, log, w)
		}
	}
}

// userLobbyConnectHandler adds the user to the lobby.
// Websockets cannot set the authorization header, so the token is read from the access_token form value.
func userLobbyConnectHandler(tokenizer Tokenizer, lobby Lobby, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessToken := r.FormValue("access_token")
		username, err := tokenizer.ReadUsername(accessToken)
		if err != nil {
			log.Printf("reading lobby access token: %v", err)
			http.Error(w, "invalid access token", http.StatusUnauthorized)
			return
		}
		if err := lobby.AddUser(username, w, r); err != nil {
			err = fmt.Errorf("websocket error: %w", err)
			writeInternalError(err, log, w)
		}
	}
}

// userUpdatePasswordHandler updates the user's password, removing the user from the lobby.
func userUpdatePasswordHandler(userDao UserDao, lobby Lobby, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.FormValue("username")
		password := r.FormValue("password")
		newPassword := r.FormValue("password_confirm")
		u := user.User{
			Username: username,
			Password: password,
		}
		ctx := r.Context()
		if err := userDao.UpdatePassword(ctx, u, newPassword); err != nil {
			handleUserDaoError(w, err, log)
			return
		}
		lobby.RemoveUser(username)
	}
}

// userDeleteHandler deletes the user from the database, removing the user from the lobby.
func userDeleteHandler(userDao UserDao, lobby Lobby, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.FormValue("username")
		password := r.FormValue("password")
		u := user.User{
			Username: username,
			Password: password,
		}
		ctx := r.Context()
		if err := userDao.Delete(ctx, u); err != nil {
			handleUserDaoError(w, err, log)
			return
		}
		lobby.RemoveUser(username)
	}
}

// handleUserDaoError writes an unauthorized response for incorrect logins and an internal error otherwise.
func handleUserDaoError(w http.ResponseWriter, err error, log log.Logger) {
	if errors.Is(err, user.ErrIncorrectLogin) {
		http.Error(w, "incorrect username/password", http.StatusUnauthorized)
		return
	}
	writeInternalError(err, log, w)
}
