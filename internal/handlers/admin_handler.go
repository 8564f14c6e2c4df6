package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/storefront-admin/internal/admin"
	"github.com/imrishuroy/storefront-admin/internal/history"
	"github.com/imrishuroy/storefront-admin/internal/orders"
	"github.com/imrishuroy/storefront-admin/internal/validation"
)

// RegisterAdminRoutes registers the admin panel API.
func RegisterAdminRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.POST("/admin/login", func(c *gin.Context) {
		var req validation.LoginRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		// A valid token keeps its session; otherwise a session is only
		// created once the password is accepted.
		sess, err := bearerSession(c, cfg)
		if err == nil {
			err = sess.Login(c.Request.Context(), req.Password)
		} else {
			sess, err = cfg.Sessions.Login(c.Request.Context(), req.Password)
		}
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_credentials",
				"message": admin.InvalidCredentialsMessage,
			})
			return
		}

		token, expires, err := cfg.Tokens.Issue(sess.ID())
		if err != nil {
			zap.L().Error("failed to issue session token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token_issue_failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"expires_at": expires,
			"state":      sess.State().String(),
		})
	})

	g := r.Group("/admin", requireSession(cfg))

	g.GET("/orders", func(c *gin.Context) {
		sess := sessionFrom(c)
		if err := sess.Load(c.Request.Context()); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, ordersResponse(sess.Snapshot()))
	})

	g.POST("/orders/reload", func(c *gin.Context) {
		sess := sessionFrom(c)
		if err := sess.Reload(c.Request.Context()); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, ordersResponse(sess.Snapshot()))
	})

	g.GET("/tally", func(c *gin.Context) {
		sess := sessionFrom(c)
		if err := sess.Load(c.Request.Context()); err != nil {
			writeError(c, err)
			return
		}
		snap := sess.Snapshot()
		c.JSON(http.StatusOK, gin.H{"tally": snap.Tally, "total": snap.Tally.Total()})
	})

	g.GET("/orders/:id", func(c *gin.Context) {
		sess := sessionFrom(c)
		if err := sess.Load(c.Request.Context()); err != nil {
			writeError(c, err)
			return
		}
		o, err := sess.Select(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, admin.Detail(o, sess.Snapshot().Now))
	})

	g.PUT("/orders/:id/status", func(c *gin.Context) {
		sess := sessionFrom(c)
		var req validation.UpdateStatusRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		if err := sess.Load(c.Request.Context()); err != nil {
			writeError(c, err)
			return
		}

		res := sess.UpdateStatus(c.Request.Context(), c.Param("id"), orders.Status(req.Status))
		if !res.OK() {
			writeError(c, res.Err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"order":        admin.Detail(res.Order, sess.Snapshot().Now),
			"prior_status": res.Prior.String(),
			"tally":        res.Tally,
		})
	})

	if cfg.History != nil {
		g.GET("/orders/:id/history", func(c *gin.Context) {
			entries, err := cfg.History.ListByOrder(c.Request.Context(), c.Param("id"))
			if err != nil {
				zap.L().Error("failed to read status history", zap.String("order_id", c.Param("id")), zap.Error(err))
				c.JSON(http.StatusBadGateway, gin.H{"error": "history_unavailable"})
				return
			}
			if entries == nil {
				entries = []history.StatusChange{}
			}
			c.JSON(http.StatusOK, gin.H{"order_id": c.Param("id"), "history": entries})
		})
	}
}

func ordersResponse(snap admin.Snapshot) gin.H {
	resp := gin.H{
		"orders": admin.Rows(snap.Orders, snap.Now),
		"count":  len(snap.Orders),
		"tally":  snap.Tally,
	}
	if snap.Selected != nil {
		resp["selected"] = admin.Detail(*snap.Selected, snap.Now)
	}
	if snap.LoadErr != nil {
		resp["load_error"] = "store_unavailable"
	}
	return resp
}
