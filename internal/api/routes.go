package api

import (
	"net/http"

	"marketplace/internal/service"

	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

type createOfferRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Qty       int    `json:"qty"`
	Off       int64  `json:"off"`
}

type messageRequest struct {
	Text string `json:"text"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.identity.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"username": req.Username})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sess, err := h.identity.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": sess.Token, "username": sess.Username})
}

func (h *Handler) adminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sess, err := h.identity.AdminLogin(c.Request.Context(), req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": sess.Token, "admin": true})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.identity.Logout(currentSession(c).Token); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": h.catalog.ListProducts(c.Query("q"))})
}

// productImage returns the slider image; ?move=next or ?move=prev rotates it first
func (h *Handler) productImage(c *gin.Context) {
	sess := currentSession(c)
	id := c.Param("id")

	var (
		image string
		err   error
	)
	switch c.Query("move") {
	case "next":
		image, err = h.catalog.NextImage(sess, id)
	case "prev":
		image, err = h.catalog.PrevImage(sess, id)
	default:
		image, err = h.catalog.CurrentImage(sess, id)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": image})
}

func (h *Handler) addProduct(c *gin.Context) {
	var req service.AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.catalog.AddProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createOffer(c *gin.Context) {
	sess := currentSession(c)

	var req createOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.catalog.Product(req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}

	offer, err := h.offers.CreateOffer(c.Request.Context(), service.CreateOfferRequest{
		Customer: sess.Username,
		Product:  product.Name,
		Qty:      req.Qty,
		Amount:   req.Off,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, offer)
}

func (h *Handler) myOffers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"offers": h.offers.CustomerOffers(currentSession(c).Username)})
}

func (h *Handler) myOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"orders": h.offers.CustomerOrders(currentSession(c).Username)})
}

func (h *Handler) pendingOffers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"offers": h.offers.PendingOffers()})
}

func (h *Handler) acceptOffer(c *gin.Context) {
	offer, err := h.offers.Accept(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

func (h *Handler) rejectOffer(c *gin.Context) {
	offer, err := h.offers.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

func (h *Handler) supplyQueue(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"offers": h.offers.SupplyQueue()})
}

func (h *Handler) recordSupply(c *gin.Context) {
	id := c.Param("id")
	supplied, err := h.offers.RecordSupply(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	offer, err := h.offers.Offer(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"supplied": supplied,
		"order":    service.OrderView{Offer: offer, OrderStatus: service.OrderStatus(offer)},
	})
}

func (h *Handler) viewOwnThread(c *gin.Context) {
	sess := currentSession(c)
	thread, err := h.chat.ViewThread(c.Request.Context(), sess, sess.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": thread})
}

func (h *Handler) postCustomerMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	msg, err := h.chat.PostCustomerMessage(c.Request.Context(), currentSession(c), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *Handler) leaveThread(c *gin.Context) {
	h.chat.LeaveThread(currentSession(c))
	c.Status(http.StatusNoContent)
}

func (h *Handler) unreadCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"unread": h.chat.UnreadCount(currentSession(c))})
}

func (h *Handler) listThreads(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"threads": h.chat.Threads()})
}

func (h *Handler) viewCustomerThread(c *gin.Context) {
	thread, err := h.chat.ViewThread(c.Request.Context(), currentSession(c), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": thread})
}

func (h *Handler) postAdminMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	msg, err := h.chat.PostAdminMessage(c.Request.Context(), currentSession(c), c.Param("username"), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
