package utils

import (
	"encoding/json"
	"net"

	"github.com/davidfemi/Yelp-Camp-sub001/models"
	"github.com/davidfemi/Yelp-Camp-sub001/storage"

	"github.com/kataras/iris/v12"
)

// Audit records an operator action. The actor comes from the X-Operator
// header set by the maintenance caller; detail is any JSON-marshalable
// payload worth keeping next to the action.
func Audit(ctx iris.Context, action, resourceType string, resourceID uint, detail interface{}) {
	var detailStr string
	if detail != nil {
		if d, err := json.Marshal(detail); err == nil {
			detailStr = string(d)
		}
	}

	actor := ctx.GetHeader("X-Operator")
	if actor == "" {
		actor = "unknown"
	}

	entry := models.AuditLog{
		Actor:        actor,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		DetailJSON:   detailStr,
		IPAddress:    ClientIP(ctx),
	}
	storage.DB.Create(&entry)
}

func ClientIP(ctx iris.Context) string {
	if ip := ctx.GetHeader("X-Forwarded-For"); ip != "" {
		return ip
	}
	ip, _, _ := net.SplitHostPort(ctx.RemoteAddr())
	return ip
}
