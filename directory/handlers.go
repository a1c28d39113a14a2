package directory

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/talkwire/relay-server/utils"
)

type addUserPayload struct {
	Username string `json:"username" validate:"required"`
	Language string `json:"language"`
}

// AddUserHandler provisions a known user over HTTP, typically called by the login
// service when an account is created.
func AddUserHandler(dir *Directory, w http.ResponseWriter, r *http.Request) {
	payload := &addUserPayload{}
	err := utils.DecodeAndValidateJSON(payload, r)
	if err != nil {
		logrus.WithField("comp", "directory").WithError(err).Info("invalid add user request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dir.Upsert(payload.Username, payload.Language)
	user, _ := dir.Get(payload.Username)
	err = utils.WriteJSON(w, http.StatusCreated, user)
	if err != nil {
		logrus.Errorln(err)
	}
}

type userListPayload struct {
	Users []User `json:"users"`
}

// ListUsersHandler returns every known user for sidebar population, offline ones
// included.
func ListUsersHandler(dir *Directory, w http.ResponseWriter, r *http.Request) {
	err := utils.WriteJSON(w, http.StatusOK, &userListPayload{Users: dir.Users()})
	if err != nil {
		logrus.Errorln(err)
	}
}
