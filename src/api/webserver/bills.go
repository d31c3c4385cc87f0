package webserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log"
	"net/http"
	"strings"

	"github.com/OneOfOne/xxhash"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stake-plus/congressrp/src/shared/congress"
	"github.com/stake-plus/congressrp/src/workflow"
)

type Bills struct {
	engine    *workflow.Engine
	sanitizer *bluemonday.Policy
}

func NewBills(engine *workflow.Engine) Bills {
	// Bill text ends up in Discord embeds, so no markup survives.
	return Bills{engine: engine, sanitizer: bluemonday.StrictPolicy()}
}

// plain strips markup. The policy escapes what it keeps, so entities are decoded
// again: Discord renders text, not HTML.
func (b Bills) plain(s string) string {
	return html.UnescapeString(b.sanitizer.Sanitize(s))
}

// Session returns the current session summary.
func (b Bills) Session(c *gin.Context) {
	s := b.engine.SessionInfo()
	c.JSON(http.StatusOK, gin.H{
		"session":       s.Session,
		"submitted":     s.Submitted,
		"pending":       s.Pending,
		"voting":        s.Voting,
		"passed":        s.Passed,
		"failed":        s.Failed,
		"enacted":       s.Enacted,
		"nextReference": s.NextReference,
	})
}

// List returns every bill, optionally filtered by proposer and status prefix.
func (b Bills) List(c *gin.Context) {
	var bills []congress.Bill
	if proposer := strings.TrimSpace(c.Query("proposer")); proposer != "" {
		bills = b.engine.BillsByProposer(proposer)
	} else {
		bills = b.engine.Bills()
	}

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		filtered := bills[:0]
		for _, bill := range bills {
			if strings.HasPrefix(strings.ToLower(bill.Status()), strings.ToLower(status)) {
				filtered = append(filtered, bill)
			}
		}
		bills = filtered
	}
	c.JSON(http.StatusOK, gin.H{"bills": newBillSummaries(bills)})
}

func (b Bills) Passed(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"bills": newBillSummaries(b.engine.Passed())})
}

func (b Bills) Failed(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"bills": newBillSummaries(b.engine.Failed())})
}

// Get returns one bill. The body hash doubles as its ETag.
func (b Bills) Get(c *gin.Context) {
	bill, err := b.engine.BillDetail(c.Param("ref"))
	if err != nil {
		writeError(c, err)
		return
	}

	body, err := json.Marshal(newBillView(bill))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	etag := bodyETag(body)
	c.Header("ETag", etag)
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Ballots lists the ballots of the bill's current round.
func (b Bills) Ballots(c *gin.Context) {
	bill, err := b.engine.BillDetail(c.Param("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reference": bill.Reference,
		"round":     bill.Round.Number,
		"open":      bill.Round.Open,
		"ballots":   newBallotViews(bill.Round.Ballots),
	})
}

// Create submits a bill on behalf of the token subject.
func (b Bills) Create(c *gin.Context) {
	var req struct {
		Category    string `json:"category"    binding:"required"`
		Chamber     string `json:"chamber"`
		Title       string `json:"title"       binding:"max=255"`
		Content     string `json:"content"     binding:"max=10000"`
		Target      string `json:"target"      binding:"max=128"`
		Designation string `json:"designation" binding:"max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	category, err := congress.ParseCategory(req.Category)
	if err != nil {
		writeError(c, err)
		return
	}
	chamber, err := congress.ParseChamber(req.Chamber)
	if err != nil {
		writeError(c, err)
		return
	}

	proposer := c.GetString(ctxSubject)
	title := b.plain(req.Title)
	content := b.plain(req.Content)

	var bill congress.Bill
	if category == congress.CategoryImpeachment {
		bill, err = b.engine.SubmitImpeachment(c.Request.Context(), workflow.SubmitImpeachment{
			Proposer:    proposer,
			Target:      b.plain(req.Target),
			Designation: b.plain(req.Designation),
			Content:     content,
		})
	} else {
		bill, err = b.engine.SubmitBill(c.Request.Context(), workflow.SubmitBill{
			Category: category,
			Chamber:  chamber,
			Proposer: proposer,
			Title:    title,
			Content:  content,
		})
	}
	if err != nil {
		writeError(c, err)
		return
	}

	log.Printf("api: %s submitted %s via web", proposer, bill.Reference)
	c.JSON(http.StatusCreated, newBillView(bill))
}

// Cosponsor adds the token subject as a cosponsor.
func (b Bills) Cosponsor(c *gin.Context) {
	bill, err := b.engine.AddCosponsor(c.Request.Context(), c.Param("ref"), c.GetString(ctxSubject))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBillView(bill))
}

// Cast records the token subject's ballot.
func (b Bills) Cast(c *gin.Context) {
	var req struct {
		Choice string `json:"choice" binding:"required"`
		Round  int    `json:"round"  binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	choice, err := congress.ParseChoice(req.Choice)
	if err != nil {
		writeError(c, err)
		return
	}

	bill, err := b.engine.CastBallot(c.Request.Context(), c.Param("ref"), req.Round, c.GetString(ctxSubject), choice)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reference": bill.Reference,
		"round":     bill.Round.Number,
		"choice":    choice,
	})
}

func bodyETag(body []byte) string {
	h := xxhash.NewS64(0)
	h.Write(body)
	return fmt.Sprintf("\"%016x\"", h.Sum64())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, congress.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, congress.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, congress.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, congress.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("api: %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"err": err.Error()})
}
