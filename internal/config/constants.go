package config

// Application constants
const (
	AppName = "facultypanel"

	// EnvPrefix prefixes every environment variable, e.g. FACULTY_PATHS_SOURCE_DIR.
	EnvPrefix = "FACULTY"

	// ConfigFileName is looked up in the working directory and configs/.
	ConfigFileName = "facultypanel.yaml"

	// Default locations, relative to the working directory
	DefaultSourceDir        = "./source_files/"
	DefaultPersonsFile      = "./mapping_files/persons.csv"
	DefaultInstitutionsFile = "./mapping_files/institutions.csv"
	DefaultTargetFile       = "./hasselback.csv"
	DefaultUnmappedFile     = "./mapping_files/unmapped.csv"
	DefaultLogFile          = "logs/facultypanel.log"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultWorkers       = 4
	DefaultUnmappedLimit = 50
)
