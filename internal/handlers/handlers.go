package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

func SendJSON(w http.ResponseWriter, status int, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(payload)
	return err
}

func sendJSONOrLog(w http.ResponseWriter, status int, v any) {
	if err := SendJSON(w, status, v); err != nil {
		Log.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

func sendErrorOrLog(w http.ResponseWriter, status int, e error) {
	sendJSONOrLog(w, status, wrapError(e))
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}
