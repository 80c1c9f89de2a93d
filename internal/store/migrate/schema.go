package migrate

import (
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// PatientsColumns holds the columns for the "patients" table.
	PatientsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "full_name", Type: field.TypeString},
		{Name: "cpf", Type: field.TypeString, Nullable: true, Size: 14},
		{Name: "phone", Type: field.TypeString, Nullable: true, Size: 20},
		{Name: "email", Type: field.TypeString, Nullable: true},
		{Name: "birth_date", Type: field.TypeTime, Nullable: true, SchemaType: map[string]string{dialect.Postgres: "date"}},
		{Name: "address", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "notes", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "is_active", Type: field.TypeBool, Default: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// PatientsTable holds the schema information for the "patients" table.
	PatientsTable = &schema.Table{
		Name:       "patients",
		Columns:    PatientsColumns,
		PrimaryKey: []*schema.Column{PatientsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "patient_full_name", Columns: []*schema.Column{PatientsColumns[1]}},
			{Name: "patient_cpf", Unique: true, Columns: []*schema.Column{PatientsColumns[2]}},
		},
	}

	// StaffColumns holds the columns for the "staff" table.
	StaffColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "full_name", Type: field.TypeString},
		{Name: "roles", Type: field.TypeOther, SchemaType: map[string]string{dialect.Postgres: "text[]"}},
		{Name: "contact_phone", Type: field.TypeString, Nullable: true, Size: 20},
		{Name: "email", Type: field.TypeString, Nullable: true},
		{Name: "is_active", Type: field.TypeBool, Default: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// StaffTable holds the schema information for the "staff" table.
	StaffTable = &schema.Table{
		Name:       "staff",
		Columns:    StaffColumns,
		PrimaryKey: []*schema.Column{StaffColumns[0]},
	}

	// ClassesColumns holds the columns for the "classes" table.
	ClassesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "name", Type: field.TypeString},
		{Name: "day_of_week", Type: field.TypeInt8, Comment: "0=Sunday, 1=Monday … 6=Saturday"},
		{Name: "start_hour", Type: field.TypeInt8},
		{Name: "start_minute", Type: field.TypeInt8},
		{Name: "duration_minutes", Type: field.TypeInt},
		{Name: "max_capacity", Type: field.TypeInt},
		{Name: "service_type", Type: field.TypeString, Default: ""},
		{Name: "is_active", Type: field.TypeBool, Default: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "staff_id", Type: field.TypeUUID, Nullable: true},
	}
	// ClassesTable holds the schema information for the "classes" table.
	ClassesTable = &schema.Table{
		Name:       "classes",
		Columns:    ClassesColumns,
		PrimaryKey: []*schema.Column{ClassesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "classes_staff_classes",
				Columns:    []*schema.Column{ClassesColumns[11]},
				RefColumns: []*schema.Column{StaffColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{Name: "class_is_active_day_of_week", Columns: []*schema.Column{ClassesColumns[8], ClassesColumns[2]}},
		},
	}

	// ClassEnrollmentsColumns holds the columns for the "class_enrollments" table.
	ClassEnrollmentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "class_id", Type: field.TypeUUID},
		{Name: "patient_id", Type: field.TypeUUID},
	}
	// ClassEnrollmentsTable holds the schema information for the "class_enrollments" table.
	ClassEnrollmentsTable = &schema.Table{
		Name:       "class_enrollments",
		Columns:    ClassEnrollmentsColumns,
		PrimaryKey: []*schema.Column{ClassEnrollmentsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "class_enrollments_classes_enrollments",
				Columns:    []*schema.Column{ClassEnrollmentsColumns[2]},
				RefColumns: []*schema.Column{ClassesColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "class_enrollments_patients_enrollments",
				Columns:    []*schema.Column{ClassEnrollmentsColumns[3]},
				RefColumns: []*schema.Column{PatientsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "classenrollment_class_id_patient_id", Unique: true, Columns: []*schema.Column{ClassEnrollmentsColumns[2], ClassEnrollmentsColumns[3]}},
		},
	}

	// AppointmentsColumns holds the columns for the "appointments" table.
	AppointmentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "class_id", Type: field.TypeUUID, Nullable: true, Comment: "Origin class of a materialized occurrence (non-FK)"},
		{Name: "start_time", Type: field.TypeTime},
		{Name: "end_time", Type: field.TypeTime},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "status", Type: field.TypeEnum, Enums: []string{"Agendado", "Concluído", "Cancelado"}, Default: "Agendado"},
		{Name: "service_type", Type: field.TypeString, Default: ""},
		{Name: "is_class_event", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "patient_id", Type: field.TypeUUID},
		{Name: "staff_id", Type: field.TypeUUID, Nullable: true},
	}
	// AppointmentsTable holds the schema information for the "appointments" table.
	AppointmentsTable = &schema.Table{
		Name:       "appointments",
		Columns:    AppointmentsColumns,
		PrimaryKey: []*schema.Column{AppointmentsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "appointments_patients_appointments",
				Columns:    []*schema.Column{AppointmentsColumns[10]},
				RefColumns: []*schema.Column{PatientsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "appointments_staff_appointments",
				Columns:    []*schema.Column{AppointmentsColumns[11]},
				RefColumns: []*schema.Column{StaffColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{Name: "appointment_start_time", Columns: []*schema.Column{AppointmentsColumns[2]}},
			{Name: "appointment_class_id_patient_id_start_time", Columns: []*schema.Column{AppointmentsColumns[1], AppointmentsColumns[10], AppointmentsColumns[2]}},
		},
	}

	// PatientPackagesColumns holds the columns for the "patient_packages" table.
	PatientPackagesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "total_sessions", Type: field.TypeInt},
		{Name: "sessions_remaining", Type: field.TypeInt},
		{Name: "status", Type: field.TypeEnum, Enums: []string{"Ativo", "Finalizado", "Aguardando Pagamento"}, Default: "Ativo"},
		{Name: "price_cents", Type: field.TypeInt64, Default: 0},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "patient_id", Type: field.TypeUUID},
	}
	// PatientPackagesTable holds the schema information for the "patient_packages" table.
	PatientPackagesTable = &schema.Table{
		Name:       "patient_packages",
		Columns:    PatientPackagesColumns,
		PrimaryKey: []*schema.Column{PatientPackagesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "patient_packages_patients_packages",
				Columns:    []*schema.Column{PatientPackagesColumns[8]},
				RefColumns: []*schema.Column{PatientsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "patientpackage_patient_id_status", Columns: []*schema.Column{PatientPackagesColumns[8], PatientPackagesColumns[4]}},
		},
	}

	// TransactionsColumns holds the columns for the "transactions" table.
	TransactionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "type", Type: field.TypeEnum, Enums: []string{"Receber", "Pagar"}},
		{Name: "description", Type: field.TypeString},
		{Name: "amount_cents", Type: field.TypeInt64},
		{Name: "due_date", Type: field.TypeTime, SchemaType: map[string]string{dialect.Postgres: "date"}},
		{Name: "category", Type: field.TypeString, Default: "Outros"},
		{Name: "status", Type: field.TypeEnum, Enums: []string{"Pendente", "Pago"}, Default: "Pendente"},
		{Name: "payment_method", Type: field.TypeString, Nullable: true},
		{Name: "payment_date", Type: field.TypeTime, Nullable: true, SchemaType: map[string]string{dialect.Postgres: "date"}},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "patient_id", Type: field.TypeUUID, Nullable: true},
	}
	// TransactionsTable holds the schema information for the "transactions" table.
	TransactionsTable = &schema.Table{
		Name:       "transactions",
		Columns:    TransactionsColumns,
		PrimaryKey: []*schema.Column{TransactionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "transactions_patients_transactions",
				Columns:    []*schema.Column{TransactionsColumns[11]},
				RefColumns: []*schema.Column{PatientsColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{Name: "transaction_type_status_due_date", Columns: []*schema.Column{TransactionsColumns[1], TransactionsColumns[6], TransactionsColumns[4]}},
		},
	}

	// PatientAnamnesisColumns holds the columns for the "patient_anamnesis" table.
	PatientAnamnesisColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "main_complaint", Type: field.TypeString, Size: 2147483647},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "patient_id", Type: field.TypeUUID, Unique: true},
	}
	// PatientAnamnesisTable holds the schema information for the "patient_anamnesis" table.
	PatientAnamnesisTable = &schema.Table{
		Name:       "patient_anamnesis",
		Columns:    PatientAnamnesisColumns,
		PrimaryKey: []*schema.Column{PatientAnamnesisColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "patient_anamnesis_patients_anamnesis",
				Columns:    []*schema.Column{PatientAnamnesisColumns[4]},
				RefColumns: []*schema.Column{PatientsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// ClinicalEvolutionsColumns holds the columns for the "clinical_evolutions" table.
	ClinicalEvolutionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "description", Type: field.TypeString, Size: 2147483647},
		{Name: "pain_level", Type: field.TypeInt8, Default: 0, Comment: "0..10"},
		{Name: "session_date", Type: field.TypeTime},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "patient_id", Type: field.TypeUUID},
	}
	// ClinicalEvolutionsTable holds the schema information for the "clinical_evolutions" table.
	ClinicalEvolutionsTable = &schema.Table{
		Name:       "clinical_evolutions",
		Columns:    ClinicalEvolutionsColumns,
		PrimaryKey: []*schema.Column{ClinicalEvolutionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "clinical_evolutions_patients_evolutions",
				Columns:    []*schema.Column{ClinicalEvolutionsColumns[5]},
				RefColumns: []*schema.Column{PatientsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "clinicalevolution_patient_id_session_date", Columns: []*schema.Column{ClinicalEvolutionsColumns[5], ClinicalEvolutionsColumns[3]}},
			{Name: "clinicalevolution_created_at", Columns: []*schema.Column{ClinicalEvolutionsColumns[4]}},
		},
	}

	// UsersColumns holds the columns for the "users" table.
	UsersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "email", Type: field.TypeString},
		{Name: "full_name", Type: field.TypeString},
		{Name: "password_hash", Type: field.TypeString},
		{Name: "is_active", Type: field.TypeBool, Default: true},
		{Name: "failed_login_attempts", Type: field.TypeInt, Default: 0},
		{Name: "locked_until", Type: field.TypeTime, Nullable: true},
		{Name: "last_login_at", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// UsersTable holds the schema information for the "users" table.
	UsersTable = &schema.Table{
		Name:       "users",
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
		Indexes: []*schema.Index{
			{Name: "user_email", Unique: true, Columns: []*schema.Column{UsersColumns[1]}},
		},
	}

	// UserSessionsColumns holds the columns for the "user_sessions" table.
	UserSessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "expires_at", Type: field.TypeTime},
		{Name: "revoked_at", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeUUID},
	}
	// UserSessionsTable holds the schema information for the "user_sessions" table.
	UserSessionsTable = &schema.Table{
		Name:       "user_sessions",
		Columns:    UserSessionsColumns,
		PrimaryKey: []*schema.Column{UserSessionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "user_sessions_users_sessions",
				Columns:    []*schema.Column{UserSessionsColumns[4]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		PatientsTable,
		StaffTable,
		ClassesTable,
		ClassEnrollmentsTable,
		AppointmentsTable,
		PatientPackagesTable,
		TransactionsTable,
		PatientAnamnesisTable,
		ClinicalEvolutionsTable,
		UsersTable,
		UserSessionsTable,
	}
)

func init() {
	ClassesTable.ForeignKeys[0].RefTable = StaffTable
	ClassEnrollmentsTable.ForeignKeys[0].RefTable = ClassesTable
	ClassEnrollmentsTable.ForeignKeys[1].RefTable = PatientsTable
	AppointmentsTable.ForeignKeys[0].RefTable = PatientsTable
	AppointmentsTable.ForeignKeys[1].RefTable = StaffTable
	PatientPackagesTable.ForeignKeys[0].RefTable = PatientsTable
	TransactionsTable.ForeignKeys[0].RefTable = PatientsTable
	PatientAnamnesisTable.ForeignKeys[0].RefTable = PatientsTable
	ClinicalEvolutionsTable.ForeignKeys[0].RefTable = PatientsTable
	UserSessionsTable.ForeignKeys[0].RefTable = UsersTable
}
