package endpoint

import (
	"github.com/rs/zerolog"

	"github.com/jefftune/tune-reporting-go/service"
)

// Cohort type choice sets differ per endpoint: retention cohorts are bucketed
// by install only, value cohorts by click or install.
var (
	RetentionCohortTypes = []string{"install"}
	ValueCohortTypes     = []string{"click", "install"}
)

func cohortTypeRule(allowed []string) rule {
	return required("cohort_type", func(p map[string]any) error {
		return validateEnum(p, "cohort_type", allowed)
	})
}

var cohortIntervalRule = required("cohort_interval", validateCohortInterval)

// newCohortEndpoint configures a cohort-family endpoint: aggregated insight
// reports with the cohort job vintage (export via the controller's own export
// action, status and fetch via its status action).
func newCohortEndpoint(client *service.Client, auth service.Auth, logger zerolog.Logger,
	controller string, countRules, findRules, exportRules []rule, fieldsRecommended []string) *Endpoint {

	return &Endpoint{
		controller:          controller,
		client:              client,
		auth:                auth,
		logger:              logger.With().Str("endpoint", controller).Logger(),
		filterDebugMode:     false,
		filterTestProfileID: true,
		fieldsRecommended:   fieldsRecommended,

		countRules:  countRules,
		findRules:   findRules,
		exportRules: exportRules,

		exportAction:     actionExport,
		statusController: controller,
		statusAction:     actionStatus,
	}
}

// NewCohortRetention returns the endpoint for cohort retention reports:
// how many users from an install cohort keep opening the app per interval.
func NewCohortRetention(client *service.Client, auth service.Auth, logger zerolog.Logger) *Endpoint {
	typeRule := cohortTypeRule(RetentionCohortTypes)
	measureRule := optional("retention_measure", func(p map[string]any) error {
		return validateEnum(p, "retention_measure", RetentionMeasures)
	})

	return newCohortEndpoint(client, auth, logger, "advertiser/stats/retention",
		[]rule{
			dateRule("start_date"),
			dateRule("end_date"),
			typeRule,
			cohortIntervalRule,
			required("group", validateGroup),
			measureRule,
			optional("filter", validateFilter),
			optional("response_timezone", validateResponseTimezone),
		},
		[]rule{
			dateRule("start_date"),
			dateRule("end_date"),
			typeRule,
			cohortIntervalRule,
			required("fields", validateFields),
			required("group", validateGroup),
			measureRule,
			optional("filter", validateFilter),
			optional("limit", validateLimit),
			optional("page", validatePage),
			optional("sort", validateSort),
			optional("response_timezone", validateResponseTimezone),
		},
		[]rule{
			dateRule("start_date"),
			dateRule("end_date"),
			typeRule,
			cohortIntervalRule,
			required("fields", validateFields),
			required("group", validateGroup),
			measureRule,
			optional("filter", validateFilter),
			optional("response_timezone", validateResponseTimezone),
		},
		[]string{
			"site_id",
			"site.name",
			"install_publisher_id",
			"install_publisher.name",
			"installs",
			"opens",
		})
}

// NewCohortValue returns the endpoint for cohort value (lifetime value)
// reports: cumulative or incremental spend of a click or install cohort.
func NewCohortValue(client *service.Client, auth service.Auth, logger zerolog.Logger) *Endpoint {
	typeRule := cohortTypeRule(ValueCohortTypes)
	aggregationRule := required("aggregation_type", func(p map[string]any) error {
		return validateEnum(p, "aggregation_type", AggregationTypes)
	})

	return newCohortEndpoint(client, auth, logger, "advertiser/stats/ltv",
		[]rule{
			dateRule("start_date"),
			dateRule("end_date"),
			typeRule,
			cohortIntervalRule,
			required("group", validateGroup),
			optional("filter", validateFilter),
			optional("response_timezone", validateResponseTimezone),
		},
		[]rule{
			dateRule("start_date"),
			dateRule("end_date"),
			typeRule,
			cohortIntervalRule,
			aggregationRule,
			required("group", validateGroup),
			optional("fields", validateFields),
			optional("filter", validateFilter),
			optional("limit", validateLimit),
			optional("page", validatePage),
			optional("sort", validateSort),
			optional("response_timezone", validateResponseTimezone),
		},
		[]rule{
			dateRule("start_date"),
			dateRule("end_date"),
			typeRule,
			cohortIntervalRule,
			aggregationRule,
			required("fields", validateFields),
			required("group", validateGroup),
			optional("filter", validateFilter),
			optional("response_timezone", validateResponseTimezone),
		},
		[]string{
			"site_id",
			"site.name",
			"publisher_id",
			"publisher.name",
			"rpi",
			"epi",
		})
}
