package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	data PassportData
	err  error
	mime string
}

func (s *stubExtractor) ExtractPassport(ctx context.Context, image []byte, mimeType string) (PassportData, error) {
	s.mime = mimeType
	return s.data, s.err
}

func TestCustomerSaveCreates(t *testing.T) {
	st, _ := newTestStore(t)
	svc := CustomerService{Store: st, Clock: fixedClock()}

	c, err := svc.Save(context.Background(), adminActor, rules.CustomerDraft{
		Name:           "  Khaled Nour ",
		Phone:          "+201001112223",
		PassportNumber: "K1234567",
		PassportExpiry: "2030-06-01",
		Age:            44,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(c.ID, "C"))
	assert.Equal(t, "Khaled Nour", c.Name)
	assert.Equal(t, models.GenderMale, c.Gender)
	assert.Equal(t, "2024-05-01", c.DateAdded)
	assert.NotNil(t, c.Documents)

	entry := st.Activity()[0]
	assert.Equal(t, models.EntityCustomer, entry.Entity)
	assert.Equal(t, "Khaled Nour", entry.Details)
}

func TestCustomerSaveRejectsSoonExpiringPassport(t *testing.T) {
	st, _ := newTestStore(t)
	svc := CustomerService{Store: st, Clock: fixedClock()}

	_, err := svc.Save(context.Background(), adminActor, rules.CustomerDraft{
		Name: "Late Passport", Phone: "1", PassportNumber: "X1", PassportExpiry: "2024-08-01", Age: 30,
	})
	var re *rules.Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, rules.PassportSoonToExpire, re.Kind)
	assert.Equal(t, "2024-11-01", re.MinExpiry)
	assert.Len(t, st.Customers(), 5)
}

func TestCustomerUpdateKeepsDocumentsAndDateAdded(t *testing.T) {
	st, _ := newTestStore(t)
	svc := CustomerService{Store: st, Clock: fixedClock()}
	ctx := context.Background()

	doc, err := svc.AddDocument(ctx, adminActor, "C001", DocumentInput{Name: "passport.jpg", URL: "data:image/jpeg;base64,AAA", Type: models.DocumentPassport})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc.ID, "DOC-"))

	c, err := svc.Save(ctx, adminActor, rules.CustomerDraft{
		ID: "C001", Name: "Ahmed M. Mohamed", Phone: "+201012345678", PassportNumber: "A12345678", PassportExpiry: "2028-05-10", Age: 36, Gender: models.GenderMale,
	})
	require.NoError(t, err)
	assert.Equal(t, "2023-10-15", c.DateAdded)
	require.Len(t, c.Documents, 1)
	assert.Equal(t, doc.ID, c.Documents[0].ID)

	log := st.Activity()
	assert.Equal(t, models.ActionUpdated, log[0].Action)
	assert.Equal(t, models.EntityDocument, log[1].Entity)
	assert.Equal(t, "passport.jpg for Ahmed Mohamed", log[1].Details)
}

func TestCustomerDocumentLifecycle(t *testing.T) {
	st, _ := newTestStore(t)
	svc := CustomerService{Store: st, Clock: fixedClock()}
	ctx := context.Background()

	_, err := svc.AddDocument(ctx, adminActor, "C002", DocumentInput{Name: "x", URL: "u", Type: "scan"})
	assert.True(t, domain.IsValidation(err))

	doc, err := svc.AddDocument(ctx, adminActor, "C002", DocumentInput{Name: "photo.png", URL: "u"})
	require.NoError(t, err)
	assert.Equal(t, models.DocumentOther, doc.Type)

	require.NoError(t, svc.DeleteDocument(ctx, adminActor, "C002", doc.ID))
	c, _ := svc.Get("C002")
	assert.Empty(t, c.Documents)
	assert.True(t, domain.IsNotFound(svc.DeleteDocument(ctx, adminActor, "C002", doc.ID)))
	assert.Equal(t, models.ActionDeleted, st.Activity()[0].Action)
}

func TestCustomerDeleteLeavesBookings(t *testing.T) {
	st, _ := newTestStore(t)
	svc := CustomerService{Store: st, Clock: fixedClock()}

	require.NoError(t, svc.Delete(context.Background(), adminActor, "C001"))
	_, err := svc.Get("C001")
	assert.True(t, domain.IsNotFound(err))
	_, ok := st.Booking("B001")
	assert.True(t, ok)
}

func TestCustomerListSearch(t *testing.T) {
	st, _ := newTestStore(t)
	svc := CustomerService{Store: st, Clock: fixedClock()}

	assert.Len(t, svc.List(CustomerFilter{Search: "+20101234"}), 2)
	assert.Len(t, svc.List(CustomerFilter{Search: "c5432"}), 1)
	assert.Len(t, svc.List(CustomerFilter{Search: "ALI"}), 2)

	recent := svc.List(CustomerFilter{DateRange: domain.DateRange{Start: "2024-01-01"}})
	assert.Len(t, recent, 2)
}

func TestScanPassportNormalizes(t *testing.T) {
	stub := &stubExtractor{data: PassportData{
		Name:           "SARA  ALI",
		PassportNumber: "E 444 555 66",
		PassportExpiry: "2031-01-01",
		DateOfBirth:    "2023-05-02",
		Gender:         models.GenderFemale,
	}}
	svc := CustomerService{Store: emptyStore(t), Scanner: stub, Clock: fixedClock()}

	got, err := svc.ScanPassport(context.Background(), []byte{0xff, 0xd8}, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "SARA ALI", got.Name)
	assert.Equal(t, "E44455566", got.PassportNumber)
	require.NotNil(t, got.Age)
	assert.Equal(t, 0, *got.Age, "birthday is tomorrow")
	assert.Equal(t, "image/png", stub.mime)
}

func TestScanPassportErrors(t *testing.T) {
	svc := CustomerService{Store: emptyStore(t), Clock: fixedClock()}
	_, err := svc.ScanPassport(context.Background(), []byte{1}, "")
	assert.True(t, domain.IsInternal(err), "no scanner configured")

	svc.Scanner = &stubExtractor{err: errors.New("quota")}
	_, err = svc.ScanPassport(context.Background(), []byte{1}, "")
	assert.EqualError(t, err, "quota")

	_, err = svc.ScanPassport(context.Background(), nil, "")
	assert.True(t, domain.IsValidation(err))
}

func TestParsePassportJSONAcceptsFencedBlock(t *testing.T) {
	got, err := parsePassportJSON("```json\n{\"name\":\"A\",\"passportNumber\":\"P1\",\"passportExpiry\":\"2030-01-01\",\"dateOfBirth\":\"1990-01-01\",\"gender\":\"Male\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "P1", got.PassportNumber)

	got.normalize(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local))
	require.NotNil(t, got.Age)
	assert.Equal(t, 34, *got.Age)

	_, err = parsePassportJSON("not json")
	assert.Error(t, err)
}
