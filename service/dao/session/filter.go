// Package session groups session stores: in-memory, file system (afs) and redis.
package session

import (
	"github.com/viant/weaver/model/session"
	"github.com/viant/weaver/service/dao"
)

// Supported List parameter names
const (
	ParamWorkflowID = "workflowId"
	ParamUserID     = "userId"
)

// Filter returns sessions matching all supported parameters.
func Filter(sessions []*session.Session, parameters []*dao.Parameter) []*session.Session {
	if len(parameters) == 0 {
		return sessions
	}
	workflowID, hasWorkflow := dao.Lookup(parameters, ParamWorkflowID)
	userID, hasUser := dao.Lookup(parameters, ParamUserID)
	var ret []*session.Session
	for _, candidate := range sessions {
		if hasWorkflow && candidate.WorkflowID != workflowID {
			continue
		}
		if hasUser && candidate.UserID != userID {
			continue
		}
		ret = append(ret, candidate)
	}
	return ret
}
