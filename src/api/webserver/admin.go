package webserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stake-plus/congressrp/src/shared/congress"
	"github.com/stake-plus/congressrp/src/workflow"
)

type Admin struct {
	engine *workflow.Engine
}

func NewAdmin(engine *workflow.Engine) Admin {
	return Admin{engine: engine}
}

// AdvanceSession starts the next legislative session.
func (a Admin) AdvanceSession(c *gin.Context) {
	session, err := a.engine.AdvanceSession(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	log.Printf("api: admin %s advanced to session %d", c.GetString(ctxSubject), session)
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// OpenVote opens the first round of a pending bill without a chamber role check.
func (a Admin) OpenVote(c *gin.Context) {
	bill, err := a.engine.OpenVotingAsAdmin(c.Request.Context(), c.Param("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	log.Printf("api: admin %s opened voting on %s", c.GetString(ctxSubject), bill.Reference)
	c.JSON(http.StatusOK, newBillView(bill))
}

// CloseVote ends the given round of a bill as if its approver had. The round
// must be named so that a retried request cannot close the next chamber's round.
func (a Admin) CloseVote(c *gin.Context) {
	var req struct {
		Round int `json:"round" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	out, err := a.engine.CloseVoting(c.Request.Context(), c.Param("ref"), req.Round, congress.CloseByApprover)
	if err != nil {
		writeError(c, err)
		return
	}
	log.Printf("api: admin %s closed %s round %d", c.GetString(ctxSubject), out.Bill.Reference, out.Result.Round)
	c.JSON(http.StatusOK, gin.H{
		"bill":      newBillView(out.Bill),
		"passed":    out.Result.Passed,
		"handedOff": out.HandedOff,
		"enacted":   out.Enacted,
	})
}
