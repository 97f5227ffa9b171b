// Command migrate creates the analytical schema on a Spanner instance
// (normally the local emulator) and can seed a demo sale.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	projectID  = flag.String("project", getEnvOrDefault("SPANNER_PROJECT_ID", "test-project"), "GCP project ID")
	instanceID = flag.String("instance", getEnvOrDefault("SPANNER_INSTANCE_ID", "dev-instance"), "Spanner instance ID")
	databaseID = flag.String("database", getEnvOrDefault("SPANNER_DATABASE_ID", "sale-notifier-db"), "Spanner database ID")
	migrateDir = flag.String("migrations", "migrations", "Directory containing migration SQL files")
	seed       = flag.Bool("seed", false, "Insert a demo contact and sale after migrating")
)

// migrator holds the resource names of one target database.
type migrator struct {
	project  string
	instance string
	database string
	dir      string
}

func (m migrator) instancePath() string {
	return fmt.Sprintf("projects/%s/instances/%s", m.project, m.instance)
}

func (m migrator) databasePath() string {
	return fmt.Sprintf("%s/databases/%s", m.instancePath(), m.database)
}

func main() {
	flag.Parse()

	ctx := context.Background()

	if emulatorHost := os.Getenv("SPANNER_EMULATOR_HOST"); emulatorHost != "" {
		log.Printf("Using Spanner emulator at %s", emulatorHost)
	}

	m := migrator{project: *projectID, instance: *instanceID, database: *databaseID, dir: *migrateDir}
	if err := m.run(ctx); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if *seed {
		if err := seedDemoSale(ctx, m.databasePath()); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Println("Demo sale seeded")
	}

	log.Println("Migrations completed successfully!")
}

func (m migrator) run(ctx context.Context) error {
	if err := m.ensureInstance(ctx); err != nil {
		return fmt.Errorf("failed to ensure instance: %w", err)
	}

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	if err := m.ensureDatabase(ctx, adminClient); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}

	if err := m.applyMigrations(ctx, adminClient); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

func (m migrator) ensureInstance(ctx context.Context) error {
	log.Printf("Ensuring instance %s exists...", m.instance)

	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: m.instancePath()})
	switch {
	case err == nil:
		log.Println("Instance already exists")
		return nil
	case status.Code(err) != codes.NotFound:
		log.Printf("Warning: unexpected error checking instance: %v", err)
		return nil
	}

	log.Println("Creating instance...")
	op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     "projects/" + m.project,
		InstanceId: m.instance,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", m.project),
			DisplayName: "Sale Notifier Development",
			NodeCount:   1,
		},
	})
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create instance: %w", err)
	}

	// The emulator may finish before Wait is called.
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		log.Printf("Warning during instance creation: %v", err)
	}

	log.Println("Instance created successfully")
	return nil
}

func (m migrator) ensureDatabase(ctx context.Context, adminClient *database.DatabaseAdminClient) error {
	log.Printf("Ensuring database %s exists...", m.database)

	_, err := adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: m.databasePath()})
	switch {
	case err == nil:
		log.Println("Database already exists")
		return nil
	case status.Code(err) != codes.NotFound:
		if os.Getenv("SPANNER_EMULATOR_HOST") != "" {
			log.Printf("Proceeding with database (emulator mode): %v", err)
			return nil
		}
		return fmt.Errorf("failed to check database: %w", err)
	}

	log.Println("Creating database...")
	op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          m.instancePath(),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", m.database),
	})
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database creation: %w", err)
	}

	log.Println("Database created successfully")
	return nil
}

func (m migrator) applyMigrations(ctx context.Context, adminClient *database.DatabaseAdminClient) error {
	log.Printf("Applying migrations from %s...", m.dir)

	files, err := filepath.Glob(filepath.Join(m.dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	if len(files) == 0 {
		log.Println("No migration files found")
		return nil
	}

	existing, err := existingTables(ctx, adminClient, m.databasePath())
	if err != nil {
		return err
	}

	for _, file := range files {
		name := filepath.Base(file)

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		statements := pendingStatements(splitDDLStatements(string(content)), existing)
		if len(statements) == 0 {
			log.Printf("Skipping %s, already applied", name)
			continue
		}

		log.Printf("Applying %s (%d statements)...", name, len(statements))
		op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   m.databasePath(),
			Statements: statements,
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", name, err)
		}

		log.Printf("Successfully applied %s", name)
	}

	return nil
}

// existingTables returns the lower-cased names of tables and indexes already defined.
func existingTables(ctx context.Context, adminClient *database.DatabaseAdminClient, dbPath string) (map[string]bool, error) {
	resp, err := adminClient.GetDatabaseDdl(ctx, &databasepb.GetDatabaseDdlRequest{Database: dbPath})
	if err != nil {
		return nil, fmt.Errorf("failed to read current schema: %w", err)
	}

	existing := make(map[string]bool)
	for _, stmt := range resp.GetStatements() {
		if name := ddlObjectName(stmt); name != "" {
			existing[name] = true
		}
	}
	return existing, nil
}

// pendingStatements drops CREATE statements for objects that already exist.
func pendingStatements(statements []string, existing map[string]bool) []string {
	var pending []string
	for _, stmt := range statements {
		if name := ddlObjectName(stmt); name != "" && existing[name] {
			continue
		}
		pending = append(pending, stmt)
	}
	return pending
}

// ddlObjectName extracts the table or index name of a CREATE statement.
func ddlObjectName(stmt string) string {
	fields := strings.Fields(stmt)
	if len(fields) < 3 || !strings.EqualFold(fields[0], "CREATE") {
		return ""
	}

	i := 1
	if strings.EqualFold(fields[i], "UNIQUE") || strings.EqualFold(fields[i], "NULL_FILTERED") {
		i++
	}
	if i+1 >= len(fields) {
		return ""
	}
	if kind := strings.ToUpper(fields[i]); kind != "TABLE" && kind != "INDEX" {
		return ""
	}

	name := fields[i+1]
	if idx := strings.IndexAny(name, "( "); idx >= 0 {
		name = name[:idx]
	}
	return strings.ToLower(strings.Trim(name, "`"))
}

func splitDDLStatements(content string) []string {
	var cleaned []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
