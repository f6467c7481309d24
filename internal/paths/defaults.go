package paths

// Well-known keys.
const (
	OutputBaseDir = "OUTPUT_BASE_DIR"
	ProjectsDir   = "PROJECTS_DIR" // alias of OUTPUT_BASE_DIR
	UserDataDir   = "USER_DATA_DIR"
	LogDir        = "LOG_DIR"
	TempDir       = "TEMP_DIR"
	BackupDir     = "BACKUP_DIR"
	PMDataDir     = "PM_DATA_DIR"
	MasterDir     = "MASTER_DIR"
	ExportDir     = "EXPORT_DIR"
	TemplateDir   = "TEMPLATE_DIR"
	DBPath        = "DB_PATH"
)

// SuiteName is the directory under ~/Documents holding user data.
const SuiteName = "ProjectSuite"

// defaultPath is a path relative to another key, or to the home directory
// when base is empty.
type defaultPath struct {
	base string
	rel  []string
	kind Kind
}

var builtinAliases = map[string]string{
	ProjectsDir:       OutputBaseDir,
	"PM_PROJECTS_DIR": OutputBaseDir,
}

func builtinDefaults() map[string]defaultPath {
	return map[string]defaultPath{
		OutputBaseDir: {rel: []string{"Desktop", "projects"}},
		UserDataDir:   {rel: []string{"Documents", SuiteName}},
		LogDir:        {base: UserDataDir, rel: []string{"logs"}},
		TempDir:       {base: UserDataDir, rel: []string{"temp"}},
		BackupDir:     {base: UserDataDir, rel: []string{"backup"}},
		PMDataDir:     {base: UserDataDir, rel: []string{"ProjectManager", "data"}},
		MasterDir:     {base: PMDataDir, rel: []string{"master"}},
		ExportDir:     {base: PMDataDir, rel: []string{"exports"}},
		TemplateDir:   {base: PMDataDir, rel: []string{"templates"}},
		DBPath:        {base: PMDataDir, rel: []string{"projects.db"}, kind: KindFile},
	}
}
