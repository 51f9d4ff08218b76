package endpoint

import (
	"github.com/rs/zerolog"

	"github.com/jefftune/tune-reporting-go/service"
)

// NewActuals returns the endpoint for aggregated advertiser statistics
// ("actuals"). Unlike the log family, find supports a timestamp breakdown
// and export requires an explicit field projection.
func NewActuals(client *service.Client, auth service.Auth, logger zerolog.Logger) *Endpoint {
	controller := "advertiser/stats"

	return &Endpoint{
		controller:          controller,
		client:              client,
		auth:                auth,
		logger:              logger.With().Str("endpoint", controller).Logger(),
		filterDebugMode:     true,
		filterTestProfileID: true,
		fieldsRecommended: []string{
			"site_id",
			"site.name",
			"publisher_id",
			"publisher.name",
			"ad_impressions",
			"ad_impressions_unique",
			"ad_clicks",
			"ad_clicks_unique",
			"paid_installs",
			"paid_installs_assists",
			"non_installs_assists",
			"paid_events",
			"paid_events_assists",
			"non_events_assists",
			"paid_opens",
			"paid_opens_assists",
			"non_opens_assists",
		},

		countRules: []rule{
			dateRule("start_date"),
			dateRule("end_date"),
			optional("group", validateGroup),
			optional("filter", validateFilter),
			optional("response_timezone", validateResponseTimezone),
		},
		findRules: []rule{
			dateRule("start_date"),
			dateRule("end_date"),
			optional("fields", validateFields),
			optional("group", validateGroup),
			optional("filter", validateFilter),
			optional("limit", validateLimit),
			optional("page", validatePage),
			optional("sort", validateSort),
			optional("timestamp", validateTimestamp),
			optional("response_timezone", validateResponseTimezone),
		},
		exportRules: []rule{
			dateRule("start_date"),
			dateRule("end_date"),
			required("fields", validateFields),
			optional("group", validateGroup),
			optional("filter", validateFilter),
			optional("timestamp", validateTimestamp),
			optional("format", validateFormat),
			optional("response_timezone", validateResponseTimezone),
		},

		exportAction:     actionExportQueue,
		statusController: exportController,
		statusAction:     actionDownload,
	}
}
