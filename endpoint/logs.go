package endpoint

import (
	"github.com/rs/zerolog"

	"github.com/jefftune/tune-reporting-go/service"
)

// newLogEndpoint configures a log-family endpoint: per-record logs with the
// export-queue job vintage (status and fetch via export/download).
func newLogEndpoint(client *service.Client, auth service.Auth, logger zerolog.Logger,
	controller string, filterDebugMode, filterTestProfileID bool, fieldsRecommended []string) *Endpoint {

	return &Endpoint{
		controller:          controller,
		client:              client,
		auth:                auth,
		logger:              logger.With().Str("endpoint", controller).Logger(),
		filterDebugMode:     filterDebugMode,
		filterTestProfileID: filterTestProfileID,
		fieldsRecommended:   fieldsRecommended,

		countRules: []rule{
			dateRule("start_date"),
			dateRule("end_date"),
			optional("filter", validateFilter),
			optional("response_timezone", validateResponseTimezone),
		},
		findRules: []rule{
			dateRule("start_date"),
			dateRule("end_date"),
			optional("fields", validateFields),
			optional("filter", validateFilter),
			optional("limit", validateLimit),
			optional("page", validatePage),
			optional("sort", validateSort),
			optional("response_timezone", validateResponseTimezone),
		},
		exportRules: []rule{
			dateRule("start_date"),
			dateRule("end_date"),
			optional("fields", validateFields),
			optional("filter", validateFilter),
			optional("format", validateFormat),
			optional("response_timezone", validateResponseTimezone),
		},

		exportAction:     actionExportQueue,
		statusController: exportController,
		statusAction:     actionDownload,
	}
}

// NewLogClicks returns the endpoint for advertiser click logs.
func NewLogClicks(client *service.Client, auth service.Auth, logger zerolog.Logger) *Endpoint {
	return newLogEndpoint(client, auth, logger, "advertiser/stats/clicks", true, true, []string{
		"id",
		"created",
		"site_id",
		"site.name",
		"publisher_id",
		"publisher.name",
		"is_unique",
		"advertiser_sub_campaign_id",
		"advertiser_sub_campaign.ref",
		"publisher_sub_campaign_id",
		"publisher_sub_campaign.ref",
	})
}

// NewLogEvents returns the endpoint for advertiser event logs.
func NewLogEvents(client *service.Client, auth service.Auth, logger zerolog.Logger) *Endpoint {
	return newLogEndpoint(client, auth, logger, "advertiser/stats/events", true, true, []string{
		"id",
		"created",
		"site_id",
		"site.name",
		"site_event_id",
		"site_event.name",
		"site_event_type",
		"publisher_id",
		"publisher.name",
		"advertiser_ref_id",
		"advertiser_sub_campaign_id",
		"advertiser_sub_campaign.ref",
		"publisher_sub_campaign_id",
		"publisher_sub_campaign.ref",
		"user_id",
		"device_id",
		"os_id",
		"google_aid",
		"ios_ifa",
		"ios_ifv",
		"windows_aid",
		"referral_url",
		"is_view_through",
		"is_reengagement",
	})
}

// NewLogEventItems returns the endpoint for advertiser event item logs.
func NewLogEventItems(client *service.Client, auth service.Auth, logger zerolog.Logger) *Endpoint {
	return newLogEndpoint(client, auth, logger, "advertiser/stats/event/items", false, true, []string{
		"id",
		"created",
		"site_id",
		"site.name",
		"campaign_id",
		"campaign.name",
		"site_event_id",
		"site_event.name",
		"site_event_item_id",
		"site_event_item.name",
		"quantity",
		"value_usd",
		"country_id",
		"country.name",
		"region_id",
		"region.name",
		"agency_id",
		"agency.name",
		"advertiser_sub_site_id",
		"advertiser_sub_site.name",
		"advertiser_sub_campaign_id",
		"advertiser_sub_campaign.name",
		"currency_code",
		"value",
	})
}

// NewLogInstalls returns the endpoint for advertiser install logs.
func NewLogInstalls(client *service.Client, auth service.Auth, logger zerolog.Logger) *Endpoint {
	return newLogEndpoint(client, auth, logger, "advertiser/stats/installs", true, true, []string{
		"id",
		"created",
		"status",
		"site_id",
		"site.name",
		"publisher_id",
		"publisher.name",
		"advertiser_ref_id",
		"advertiser_sub_campaign_id",
		"advertiser_sub_campaign.ref",
		"publisher_sub_campaign_id",
		"publisher_sub_campaign.ref",
		"user_id",
		"device_id",
		"os_id",
		"google_aid",
		"ios_ifa",
		"ios_ifv",
		"windows_aid",
		"referral_url",
		"is_view_through",
	})
}

// NewLogPostbacks returns the endpoint for advertiser postback logs.
func NewLogPostbacks(client *service.Client, auth service.Auth, logger zerolog.Logger) *Endpoint {
	return newLogEndpoint(client, auth, logger, "advertiser/stats/postbacks", true, true, []string{
		"id",
		"created",
		"site_id",
		"site.name",
		"site_event_id",
		"site_event.name",
		"attributed_publisher_id",
		"attributed_publisher.name",
		"url",
		"http_result",
	})
}
