package models

// AdminKey is the unread-counter key of the single admin identity
const AdminKey = "admin"

// Document is the whole persisted marketplace state
type Document struct {
	Users    map[string]string        `json:"users"`
	Products []Product                `json:"products"`
	Offers   []Offer                  `json:"offers"`
	Chats    map[string][]ChatMessage `json:"chats"`
	Unread   map[string]int           `json:"unread"`
}

// Product represents a product in the catalog
type Product struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Price  int64    `json:"price"`
	Images []string `json:"images"`
}

// Offer represents a customer bid, and once accepted, the order it becomes
type Offer struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Product  string `json:"product"`
	Qty      int    `json:"qty"`
	Off      int64  `json:"off"`
	Status   string `json:"status"`
	Supplied int    `json:"supplied"`
}

// ChatMessage is one entry of a customer thread
type ChatMessage struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Offer statuses
const (
	OfferStatusPending  = "pending"
	OfferStatusAccepted = "accepted"
	OfferStatusRejected = "rejected"
)

// Order display statuses
const (
	OrderStatusAccepted = "accepted"
	OrderStatusComplete = "complete"
)

// Message senders
const (
	SenderCustomer = "customer"
	SenderAdmin    = "admin"
)

// NewDocument returns an empty document with every collection allocated
func NewDocument() *Document {
	return &Document{
		Users:    map[string]string{},
		Products: []Product{},
		Offers:   []Offer{},
		Chats:    map[string][]ChatMessage{},
		Unread:   map[string]int{},
	}
}

// Normalize allocates any collection left nil by decoding
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = map[string]string{}
	}
	if d.Products == nil {
		d.Products = []Product{}
	}
	if d.Offers == nil {
		d.Offers = []Offer{}
	}
	if d.Chats == nil {
		d.Chats = map[string][]ChatMessage{}
	}
	if d.Unread == nil {
		d.Unread = map[string]int{}
	}
}

// Clone returns a deep copy of the document. Nil collections stay nil and
// empty ones stay empty, so a clone compares equal to its source.
func (d *Document) Clone() *Document {
	c := &Document{}
	if d.Users != nil {
		c.Users = make(map[string]string, len(d.Users))
		for k, v := range d.Users {
			c.Users[k] = v
		}
	}
	if d.Products != nil {
		c.Products = make([]Product, len(d.Products))
		for i, p := range d.Products {
			c.Products[i] = p.Clone()
		}
	}
	if d.Offers != nil {
		c.Offers = make([]Offer, len(d.Offers))
		copy(c.Offers, d.Offers)
	}
	if d.Chats != nil {
		c.Chats = make(map[string][]ChatMessage, len(d.Chats))
		for k, thread := range d.Chats {
			c.Chats[k] = cloneThread(thread)
		}
	}
	if d.Unread != nil {
		c.Unread = make(map[string]int, len(d.Unread))
		for k, v := range d.Unread {
			c.Unread[k] = v
		}
	}
	return c
}

func cloneThread(thread []ChatMessage) []ChatMessage {
	if thread == nil {
		return nil
	}
	out := make([]ChatMessage, len(thread))
	copy(out, thread)
	return out
}

// Clone returns a copy of the product that shares no image slice
func (p Product) Clone() Product {
	if p.Images != nil {
		images := make([]string, len(p.Images))
		copy(images, p.Images)
		p.Images = images
	}
	return p
}

// OrderStatus projects the display status of an accepted offer
func (o Offer) OrderStatus() string {
	if o.Supplied == o.Qty {
		return OrderStatusComplete
	}
	return OrderStatusAccepted
}
