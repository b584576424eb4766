package service

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/infra/blob"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/repo"
	"github.com/szigetelo/backoffice/internal/pkg/lifecycle"
	"github.com/szigetelo/backoffice/internal/pkg/relation"
	"github.com/szigetelo/backoffice/internal/pkg/utils/mime"
	"github.com/szigetelo/backoffice/internal/telemetry"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var contractTemplate = template.Must(template.New("contract.html.tmpl").Funcs(template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"area": func(f *float64) string {
		if f == nil {
			return ""
		}
		return strconv.FormatFloat(*f, 'f', -1, 64)
	},
}).ParseFS(templateFS, "templates/contract.html.tmpl"))

type BlobStore interface {
	UploadBytes(ctx context.Context, prefix, filename string, body []byte, contentType string) (*blob.UploadedMeta, error)
	PresignGet(ctx context.Context, key string, expire time.Duration) (string, error)
}

type PDFRenderer interface {
	Enabled() bool
	RenderPDF(ctx context.Context, html []byte, filename string) ([]byte, error)
}

type DocumentService interface {
	Generate(ctx context.Context, in GenerateDocumentInput) (*model.Document, error)
	RegenerateWithSignature(ctx context.Context, in RegenerateWithSignatureInput) (*model.Document, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*DocumentView, error)
}

type documentService struct {
	docs          repo.DocumentRepo
	projects      repo.ProjectRepo
	blob          BlobStore
	renderer      PDFRenderer
	dispatcher    *lifecycle.Dispatcher
	audit         auditor
	presignExpire time.Duration
	log           *zap.Logger
	now           func() time.Time
}

func NewDocumentService(
	docs repo.DocumentRepo,
	projects repo.ProjectRepo,
	logs repo.ProjectAuditLogRepo,
	blob BlobStore,
	renderer PDFRenderer,
	dispatcher *lifecycle.Dispatcher,
	presignExpire time.Duration,
	log *zap.Logger,
) DocumentService {
	return &documentService{
		docs:          docs,
		projects:      projects,
		blob:          blob,
		renderer:      renderer,
		dispatcher:    dispatcher,
		audit:         newAuditor(logs, log),
		presignExpire: presignExpire,
		log:           log,
		now:           time.Now,
	}
}

type GenerateDocumentInput struct {
	Project relation.Ref
	Type    model.DocumentType
	Title   string
	Actor   *model.AuditUser
}

type RegenerateWithSignatureInput struct {
	Document relation.Ref
	// Signature is a data URL or bare base64 image.
	Signature string
	Actor     *model.AuditUser
}

type DocumentView struct {
	*model.Document
	URL string `json:"url"`
}

type contractView struct {
	Project       *model.Project
	Company       string
	Subcontractor string
	GeneratedAt   string
	Missing       []string
	Signature     template.URL
}

func resolveUUID(ref relation.Ref, field string) (uuid.UUID, error) {
	raw, ok := ref.ID()
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s %q is not a valid id", ErrInvalidInput, field, raw)
	}
	return id, nil
}

func (s *documentService) getProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	p, err := s.projects.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	return p, err
}

func (s *documentService) renderContract(p *model.Project, signature template.URL) ([]byte, error) {
	view := contractView{
		Project:     p,
		GeneratedAt: s.now().Format("2006.01.02."),
		Missing:     model.MissingContractFields(p),
		Signature:   signature,
	}
	if p.Company != nil {
		view.Company = p.Company.Name
	}
	if p.Subcontractor != nil {
		view.Subcontractor = p.Subcontractor.Name
	}

	var buf bytes.Buffer
	if err := contractTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render contract: %w", err)
	}
	return buf.Bytes(), nil
}

// store converts html to PDF when a renderer is configured, uploads it and creates the document.
func (s *documentService) store(ctx context.Context, p *model.Project, html []byte, doc *model.Document) error {
	body, contentType, filename := html, "text/html; charset=utf-8", doc.Title+".html"
	if s.renderer != nil && s.renderer.Enabled() {
		pdf, err := s.renderer.RenderPDF(ctx, html, doc.Title+".pdf")
		if err != nil {
			return err
		}
		body, contentType, filename = pdf, "application/pdf", doc.Title+".pdf"
	}

	meta, err := s.blob.UploadBytes(ctx, "documents/"+p.ID.String(), filename, body, contentType)
	if err != nil {
		return fmt.Errorf("upload document: %w", err)
	}

	doc.ProjectID = &p.ID
	doc.Bucket = meta.Bucket
	doc.S3Key = meta.Key
	doc.MIME = meta.MIME
	doc.SizeB = meta.SizeB
	doc.SHA256 = meta.SHA256
	if err := s.docs.Create(ctx, doc); err != nil {
		return err
	}

	s.dispatcher.After(ctx, model.UIDDocument, lifecycle.AfterCreate, doc)
	telemetry.RecordDocumentGenerated(ctx, string(doc.Type), doc.Signed)
	return nil
}

func (s *documentService) Generate(ctx context.Context, in GenerateDocumentInput) (*model.Document, error) {
	projectID, err := resolveUUID(in.Project, "project")
	if err != nil {
		return nil, err
	}
	if in.Type == "" {
		in.Type = model.DocumentTypeContract
	}
	if in.Type != model.DocumentTypeContract && in.Type != model.DocumentTypeOther {
		return nil, fmt.Errorf("%w: cannot generate documents of type %q", ErrInvalidInput, in.Type)
	}

	p, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	html, err := s.renderContract(p, "")
	if err != nil {
		return nil, err
	}

	title := in.Title
	if title == "" {
		title = "szerzodes-" + s.now().Format("20060102-150405")
	}
	doc := &model.Document{Type: in.Type, Title: title}
	if err := s.store(ctx, p, html, doc); err != nil {
		return nil, err
	}

	s.audit.record(ctx, p.ID, model.AuditActionDocumentGenerated, model.UIDDocument, in.Actor, map[string]interface{}{
		"document_id": doc.ID.String(),
		"type":        string(doc.Type),
	})
	return doc, nil
}

func decodeSignature(sig string) ([]byte, string, error) {
	raw, err := mime.DecodeDataURL(sig)
	if err != nil {
		return nil, "", fmt.Errorf("%w: signature must be a base64 image or data URL", ErrInvalidInput)
	}
	ct := mime.DetectMimeType(raw, "")
	if !mime.IsImage(ct) {
		return nil, "", fmt.Errorf("%w: signature is %s, not an image", ErrInvalidInput, ct)
	}
	return raw, ct, nil
}

func (s *documentService) RegenerateWithSignature(ctx context.Context, in RegenerateWithSignatureInput) (*model.Document, error) {
	docID, err := resolveUUID(in.Document, "document")
	if err != nil {
		return nil, err
	}
	sig, sigType, err := decodeSignature(in.Signature)
	if err != nil {
		return nil, err
	}

	src, err := s.docs.Get(ctx, docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: document %s", ErrNotFound, docID)
		}
		return nil, err
	}
	if src.ProjectID == nil {
		return nil, fmt.Errorf("%w: document %s has no project", ErrInvalidInput, docID)
	}
	p, err := s.getProject(ctx, *src.ProjectID)
	if err != nil {
		return nil, err
	}

	if _, err := s.blob.UploadBytes(ctx, "signatures/"+p.ID.String(), "signature"+mime.Extension(sig), sig, sigType); err != nil {
		return nil, fmt.Errorf("upload signature: %w", err)
	}

	dataURL := template.URL("data:" + sigType + ";base64," + base64.StdEncoding.EncodeToString(sig))
	html, err := s.renderContract(p, dataURL)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		Type:             model.DocumentTypeContractSigned,
		Title:            src.Title + "-alairt",
		Signed:           true,
		SourceDocumentID: &src.ID,
	}
	if err := s.store(ctx, p, html, doc); err != nil {
		return nil, err
	}

	s.audit.record(ctx, p.ID, model.AuditActionDocumentSigned, model.UIDDocument, in.Actor, map[string]interface{}{
		"document_id":        doc.ID.String(),
		"source_document_id": src.ID.String(),
	})
	return doc, nil
}

func (s *documentService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*DocumentView, error) {
	if _, err := s.getProject(ctx, projectID); err != nil {
		return nil, err
	}
	docs, err := s.docs.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	out := make([]*DocumentView, 0, len(docs))
	for _, d := range docs {
		url, err := s.blob.PresignGet(ctx, d.S3Key, s.presignExpire)
		if err != nil {
			s.log.Warn("presign document failed", zap.String("document_id", d.ID.String()), zap.Error(err))
		}
		out = append(out, &DocumentView{Document: d, URL: url})
	}
	return out, nil
}
