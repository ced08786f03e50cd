package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/rules"
	"backoffice/internal/store"
	"backoffice/internal/utils"
)

// CustomerService keeps customers and their documents. Deleting a customer
// leaves their bookings untouched.
type CustomerService struct {
	Store     *store.Store
	Scanner   PassportExtractor
	Clock     Clock
	RequestID string
}

type CustomerFilter struct {
	Search string `form:"search"`
	domain.DateRange
}

type DocumentInput struct {
	Name string              `json:"name" binding:"required"`
	URL  string              `json:"url" binding:"required"`
	Type models.DocumentType `json:"type"`
}

// Save validates the draft (passport rule included) and upserts it.
func (s CustomerService) Save(ctx context.Context, actor domain.Actor, d rules.CustomerDraft) (models.Customer, error) {
	var saved models.Customer
	now := s.Clock.now()
	err := s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		action := models.ActionCreated
		if d.ID != "" {
			i := store.IndexOf(snap.Customers, d.ID, store.CustomerKey)
			if i < 0 {
				return notFound("customer", d.ID)
			}
			action = models.ActionUpdated
			existing := snap.Customers[i]
			if d.Documents == nil {
				d.Documents = existing.Documents
			}
			if strings.TrimSpace(d.DateAdded) == "" {
				d.DateAdded = existing.DateAdded
			}
		}

		c, err := rules.ValidateCustomer(d, rules.CustomerContext{Bookings: snap.Bookings, Today: now})
		if err != nil {
			return err
		}
		if c.ID == "" {
			c.ID = newID("C", func(id string) bool { return store.IndexOf(snap.Customers, id, store.CustomerKey) >= 0 })
		}
		if c.DateAdded == "" {
			c.DateAdded = utils.FormatDate(now)
		}
		for i := range c.Documents {
			if c.Documents[i].ID == "" {
				c.Documents[i].ID = newID("DOC-", nil)
				record(snap, now, actor, models.ActionCreated, models.EntityDocument, c.Documents[i].ID, documentDetails(c.Documents[i].Name, c.Name))
			}
		}

		snap.Customers = store.Upsert(snap.Customers, c, store.CustomerKey)
		record(snap, now, actor, action, models.EntityCustomer, c.ID, c.Name)
		saved = c
		return nil
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "customer", "save", "rejected: "+err.Error())
		return models.Customer{}, err
	}
	utils.LogEvent(s.RequestID, "customer", "save", "customer_id="+saved.ID)
	return saved, nil
}

func (s CustomerService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	now := s.Clock.now()
	return s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		i := store.IndexOf(snap.Customers, id, store.CustomerKey)
		if i < 0 {
			return notFound("customer", id)
		}
		name := snap.Customers[i].Name
		snap.Customers, _ = store.Remove(snap.Customers, id, store.CustomerKey)
		record(snap, now, actor, models.ActionDeleted, models.EntityCustomer, id, name)
		return nil
	})
}

func (s CustomerService) Get(id string) (models.Customer, error) {
	c, ok := s.Store.Customer(id)
	if !ok {
		return models.Customer{}, notFound("customer", id)
	}
	return c, nil
}

// List matches search against name, phone and passport number, and bounds
// dateAdded by the range. Most recently added first.
func (s CustomerService) List(f CustomerFilter) []models.Customer {
	all := s.Store.Customers()
	out := make([]models.Customer, 0, len(all))
	for _, c := range all {
		if f.Search != "" &&
			!utils.ContainsFold(c.Name, f.Search) &&
			!strings.Contains(c.Phone, strings.TrimSpace(f.Search)) &&
			!utils.ContainsFold(c.PassportNumber, f.Search) {
			continue
		}
		if !f.DateRange.Contains(c.DateAdded) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateAdded > out[j].DateAdded })
	return out
}

func (s CustomerService) AddDocument(ctx context.Context, actor domain.Actor, customerID string, in DocumentInput) (models.DocumentFile, error) {
	if in.Type == "" {
		in.Type = models.DocumentOther
	}
	if !in.Type.Valid() {
		return models.DocumentFile{}, domain.ValidationError{Field: "type", Msg: "unknown document type"}
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.URL) == "" {
		return models.DocumentFile{}, domain.ValidationError{Field: "name", Msg: "name and url are required"}
	}

	doc := models.DocumentFile{ID: newID("DOC-", nil), Name: strings.TrimSpace(in.Name), URL: in.URL, Type: in.Type}
	now := s.Clock.now()
	err := s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		i := store.IndexOf(snap.Customers, customerID, store.CustomerKey)
		if i < 0 {
			return notFound("customer", customerID)
		}
		c := &snap.Customers[i]
		c.Documents = append(c.Documents, doc)
		record(snap, now, actor, models.ActionCreated, models.EntityDocument, doc.ID, documentDetails(doc.Name, c.Name))
		return nil
	})
	if err != nil {
		return models.DocumentFile{}, err
	}
	utils.LogEvent(s.RequestID, "customer", "add_document", "customer_id="+customerID+" doc_id="+doc.ID)
	return doc, nil
}

func (s CustomerService) DeleteDocument(ctx context.Context, actor domain.Actor, customerID, docID string) error {
	now := s.Clock.now()
	return s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		i := store.IndexOf(snap.Customers, customerID, store.CustomerKey)
		if i < 0 {
			return notFound("customer", customerID)
		}
		c := &snap.Customers[i]
		for j, d := range c.Documents {
			if d.ID != docID {
				continue
			}
			c.Documents = append(c.Documents[:j:j], c.Documents[j+1:]...)
			record(snap, now, actor, models.ActionDeleted, models.EntityDocument, docID, documentDetails(d.Name, c.Name))
			return nil
		}
		return notFound("document", docID)
	})
}

// ScanPassport reads a passport image into form prefill data. Age is
// computed against today.
func (s CustomerService) ScanPassport(ctx context.Context, image []byte, mimeType string) (PassportData, error) {
	if s.Scanner == nil {
		return PassportData{}, domain.InternalError{Msg: "passport scanning is not configured"}
	}
	if len(image) == 0 {
		return PassportData{}, domain.ValidationError{Field: "file", Msg: "image is empty"}
	}
	data, err := s.Scanner.ExtractPassport(ctx, image, mimeType)
	if err != nil {
		utils.LogError(s.RequestID, "customer", "scan_passport", err)
		return PassportData{}, err
	}
	data.normalize(s.Clock.now())
	utils.LogEvent(s.RequestID, "customer", "scan_passport", "extracted passport data")
	return data, nil
}

func documentDetails(docName, customer string) string {
	return fmt.Sprintf("%s for %s", docName, customer)
}
