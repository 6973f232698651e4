package store

import (
	"context"
	"fmt"

	"collab-server/internal/schema"
	"collab-server/internal/storage"
)

// PublishAgreementTemplate stores a new active template version. In the same
// transaction any previously active version with the same title is
// deactivated, so readers always see at most one active version per title.
func (s *Store) PublishAgreementTemplate(ctx context.Context, title, body string) (AgreementTemplate, error) {
	var result AgreementTemplate
	err := s.Transaction(ctx, func(ctx context.Context, ts Store) error {
		rows, err := ts.backend.FindAll(ctx, schema.TableAgreementTemplates, storage.Query{
			Conditions: storage.Conditions{schema.ColTitle: title},
			OrderBy:    []storage.Order{{Column: schema.ColVersion, Desc: true}},
		})
		if err != nil {
			return err
		}
		version := int64(1)
		for _, r := range rows {
			if v := rowInt(r, schema.ColVersion); v >= version {
				version = v + 1
			}
			if rowBool(r, schema.ColActive) {
				if _, err := ts.backend.Update(ctx, schema.TableAgreementTemplates, rowString(r, schema.ColID), storage.Row{
					schema.ColActive: boolValue(false),
				}); err != nil {
					return fmt.Errorf("failed to deactivate template: %w", err)
				}
			}
		}
		id, err := ts.backend.Create(ctx, schema.TableAgreementTemplates, storage.Row{
			schema.ColTitle:   title,
			schema.ColBody:    body,
			schema.ColVersion: version,
			schema.ColActive:  boolValue(true),
		})
		if err != nil {
			return fmt.Errorf("failed to publish template: %w", err)
		}
		row, err := ts.backend.FindByID(ctx, schema.TableAgreementTemplates, id)
		if err != nil {
			return err
		}
		result = agreementTemplateFromRow(row)
		return nil
	})
	return result, err
}

// GetActiveAgreementTemplate fetches the active version of a template title.
func (s *Store) GetActiveAgreementTemplate(ctx context.Context, title string) (AgreementTemplate, error) {
	row, err := s.backend.FindFirst(ctx, schema.TableAgreementTemplates, storage.Conditions{
		schema.ColTitle:  title,
		schema.ColActive: boolValue(true),
	})
	if err != nil {
		return AgreementTemplate{}, err
	}
	return agreementTemplateFromRow(row), nil
}

// ListAgreementTemplateVersions returns every version of a template title,
// newest first.
func (s *Store) ListAgreementTemplateVersions(ctx context.Context, title string) ([]AgreementTemplate, error) {
	rows, err := s.backend.FindAll(ctx, schema.TableAgreementTemplates, storage.Query{
		Conditions: storage.Conditions{schema.ColTitle: title},
		OrderBy:    []storage.Order{{Column: schema.ColVersion, Desc: true}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]AgreementTemplate, len(rows))
	for i, r := range rows {
		out[i] = agreementTemplateFromRow(r)
	}
	return out, nil
}

func agreementTemplateFromRow(r storage.Row) AgreementTemplate {
	return AgreementTemplate{
		ID:        rowString(r, schema.ColID),
		Title:     rowString(r, schema.ColTitle),
		Body:      rowString(r, schema.ColBody),
		Version:   int(rowInt(r, schema.ColVersion)),
		Active:    rowBool(r, schema.ColActive),
		CreatedAt: rowTime(r, schema.ColCreatedAt),
		UpdatedAt: rowTime(r, schema.ColUpdatedAt),
	}
}
