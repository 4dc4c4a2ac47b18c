package api

import (
	"net/http"

	"github.com/dekarrin/ll1gen/internal/version"
	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/middle"
	"github.com/dekarrin/ll1gen/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API
// and server. Login is not required to call it.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return api.Endpoint(api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	loggedIn := req.Context().Value(middle.AuthLoggedIn).(bool)

	resp := InfoModel{Version: version.ServerCurrent}

	accStr := "unauthed client"
	if loggedIn {
		acc := req.Context().Value(middle.AuthUser).(dao.Account)
		accStr = "account '" + acc.Username + "'"
	}
	return result.OK(resp, "%s got API info", accStr)
}
