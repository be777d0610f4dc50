package services

import (
	"context"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
)

// Downloadable reports
const (
	ReportForecast     = "forecast"
	ReportMetaAds      = "meta-ads"
	ReportInstagramTop = "instagram-top"
	ReportSalesShare   = "sales-share"
)

// Report is a rendered download with its file name
type Report struct {
	*export.File
	Filename string
}

// ReportService renders page tables as Excel or PDF files
type ReportService struct {
	shopify   *ShopifyService
	instagram *InstagramService
	metaAds   *MetaAdsService
	exporter  *export.Service
	horizon   int
}

func NewReportService(shopify *ShopifyService, instagram *InstagramService, metaAds *MetaAdsService, exporter *export.Service, horizon int) *ReportService {
	return &ReportService{
		shopify:   shopify,
		instagram: instagram,
		metaAds:   metaAds,
		exporter:  exporter,
		horizon:   horizon,
	}
}

// Generate builds the named report for the window and renders it
func (s *ReportService) Generate(ctx context.Context, report string, format export.Format, w *analytics.TimeWindow) (*Report, error) {
	doc, err := s.document(ctx, report, w)
	if err != nil {
		return nil, err
	}
	if w != nil {
		doc.Description = fmt.Sprintf("Período: %s a %s", formatDate(w.Start), formatDate(w.End))
	}

	file, err := s.exporter.Render(doc, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return &Report{
		File:     file,
		Filename: fmt.Sprintf("%s_%s%s", report, time.Now().Format("20060102"), file.Extension),
	}, nil
}

// Names lists the reports Generate accepts
func (s *ReportService) Names() []string {
	return []string{ReportForecast, ReportMetaAds, ReportInstagramTop, ReportSalesShare}
}

// GenerateAll renders every report as one sheet of a single workbook
func (s *ReportService) GenerateAll(ctx context.Context, w *analytics.TimeWindow) (*Report, error) {
	names := s.Names()
	docs := make([]*export.Document, 0, len(names))
	for _, name := range names {
		doc, err := s.document(ctx, name, w)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		docs = append(docs, doc)
	}

	file, err := s.exporter.RenderWorkbook(docs)
	if err != nil {
		return nil, err
	}

	return &Report{
		File:     file,
		Filename: fmt.Sprintf("allweather_%s%s", time.Now().Format("20060102"), file.Extension),
	}, nil
}

func (s *ReportService) document(ctx context.Context, report string, w *analytics.TimeWindow) (*export.Document, error) {
	switch report {
	case ReportForecast:
		fc, err := s.shopify.Forecast(ctx, s.horizon)
		if err != nil {
			return nil, err
		}
		rows := make([][]interface{}, 0, len(fc.Items))
		for _, item := range fc.Items {
			rows = append(rows, []interface{}{
				item.SKU, item.AvgDailyDemand, item.ProjectedDemand, item.CurrentStock, item.ReorderQuantity,
			})
		}
		return export.NewDocument(
			fmt.Sprintf("Previsão de compra (%d dias)", fc.HorizonDays),
			[]string{"SKU", "Demanda média diária", "Demanda projetada", "Estoque atual", "Quantidade a comprar"},
			rows,
		), nil

	case ReportMetaAds:
		page, err := s.metaAds.Overview(ctx, w, models.MetaAdsFilter{})
		if err != nil {
			return nil, err
		}
		return export.NewDocument("Meta Ads: anúncios", page.Ads.Headers, page.Ads.Rows), nil

	case ReportInstagramTop:
		page, err := s.instagram.Posts(ctx, w)
		if err != nil {
			return nil, err
		}
		rows := make([][]interface{}, 0, len(page.TopPosts))
		for _, p := range page.TopPosts {
			rows = append(rows, []interface{}{p.Permalink, p.Reach, p.Likes, p.Comments})
		}
		return export.NewDocument("Instagram: top posts por alcance",
			[]string{"Permalink", "Alcance", "Curtidas", "Comentários"}, rows), nil

	case ReportSalesShare:
		share, err := s.shopify.SalesShare(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([][]interface{}, 0, len(share.Items))
		for _, item := range share.Items {
			rows = append(rows, []interface{}{item.SKU, item.Units, item.Percentage})
		}
		return export.NewDocument("Participação nas vendas por SKU",
			[]string{"SKU", "Unidades", "% do total"}, rows), nil

	default:
		return nil, fmt.Errorf("%w: unknown report %q", ErrInvalidRequest, report)
	}
}
