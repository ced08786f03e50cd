package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/domain/models"
	"backoffice/internal/utils"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// PassportData is what the scanner returns to prefill the customer form.
type PassportData struct {
	Name           string        `json:"name"`
	PassportNumber string        `json:"passportNumber"`
	PassportExpiry string        `json:"passportExpiry"`
	DateOfBirth    string        `json:"dateOfBirth"`
	Gender         models.Gender `json:"gender"`
	Age            *int          `json:"age,omitempty"`
}

// PassportExtractor turns a passport image into structured fields.
type PassportExtractor interface {
	ExtractPassport(ctx context.Context, image []byte, mimeType string) (PassportData, error)
}

func (p *PassportData) normalize(now time.Time) {
	p.Name = utils.NormalizeSpace(p.Name)
	p.PassportNumber = strings.Join(strings.Fields(p.PassportNumber), "")
	p.PassportExpiry = strings.TrimSpace(p.PassportExpiry)
	p.DateOfBirth = strings.TrimSpace(p.DateOfBirth)
	if !p.Gender.Valid() {
		p.Gender = ""
	}
	p.Age = nil
	if dob, err := utils.ParseDate(p.DateOfBirth); err == nil {
		age := utils.AgeAt(dob, utils.StartOfDay(now))
		p.Age = &age
	}
}

const passportInstruction = "You are an expert OCR system specializing in passports. " +
	"Extract the requested fields from the image and answer with JSON only. " +
	"Dates must be YYYY-MM-DD. Gender must be either Male or Female."

const passportPrompt = "Analyze the provided passport image and extract the person's details."

// GeminiPassportScanner asks a Gemini model for the passport fields with a
// JSON response schema.
type GeminiPassportScanner struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiPassportScanner(ctx context.Context, apiKey, modelName string) (*GeminiPassportScanner, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(passportInstruction)}}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":           {Type: genai.TypeString, Description: "Full name as printed"},
			"passportNumber": {Type: genai.TypeString, Description: "Passport number"},
			"passportExpiry": {Type: genai.TypeString, Description: "Expiry date, YYYY-MM-DD"},
			"dateOfBirth":    {Type: genai.TypeString, Description: "Date of birth, YYYY-MM-DD"},
			"gender":         {Type: genai.TypeString, Enum: []string{"Male", "Female"}},
		},
		Required: []string{"name", "passportNumber", "passportExpiry", "dateOfBirth", "gender"},
	}
	return &GeminiPassportScanner{client: client, model: model}, nil
}

func (g *GeminiPassportScanner) ExtractPassport(ctx context.Context, image []byte, mimeType string) (PassportData, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	resp, err := g.model.GenerateContent(ctx, genai.Blob{MIMEType: mimeType, Data: image}, genai.Text(passportPrompt))
	if err != nil {
		return PassportData{}, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return PassportData{}, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return parsePassportJSON(sb.String())
}

func (g *GeminiPassportScanner) Close() error {
	return g.client.Close()
}

// parsePassportJSON tolerates a fenced ```json block around the payload.
func parsePassportJSON(raw string) (PassportData, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var out PassportData
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &out); err != nil {
		return PassportData{}, fmt.Errorf("decode passport response: %w", err)
	}
	return out, nil
}
