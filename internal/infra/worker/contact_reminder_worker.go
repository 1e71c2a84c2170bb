package worker

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// ReminderSender é o pedaço do EmailSender que o worker usa.
type ReminderSender interface {
	SendContactReminder(to, ownerName, leadName, stage, nextContact string) error
}

// ContactReminderWorker varre leads com next_contact vencido e sem
// lembrete enviado, e avisa o dono por email.
type ContactReminderWorker struct {
	db           *sql.DB
	sender       ReminderSender
	tickInterval time.Duration
}

func NewContactReminderWorker(db *sql.DB, sender ReminderSender) *ContactReminderWorker {
	return &ContactReminderWorker{
		db:           db,
		sender:       sender,
		tickInterval: 5 * time.Minute,
	}
}

func (w *ContactReminderWorker) Start(ctx context.Context) {
	log.Println("🕒 Contact Reminder Worker iniciado")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.remindOverdueContacts(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Contact Reminder Worker encerrado")
			return
		case <-ticker.C:
			w.remindOverdueContacts(ctx)
		}
	}
}

func (w *ContactReminderWorker) remindOverdueContacts(ctx context.Context) {
	// O UPDATE ... RETURNING marca e coleta numa tacada só, então dois
	// processos não mandam lembrete duplicado para o mesmo lead.
	query := `
		UPDATE leads
		SET reminder_sent_at = NOW()
		FROM users
		WHERE leads.owner_id = users.id
		  AND leads.next_contact < NOW()
		  AND leads.reminder_sent_at IS NULL
		  AND leads.stage NOT IN ('ganho', 'perdido', 'pago')
		RETURNING leads.name, leads.stage, leads.next_contact, users.name, users.email
	`

	rows, err := w.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ Erro ao buscar contatos atrasados: %v", err)
		return
	}
	defer rows.Close()

	sent := 0
	for rows.Next() {
		var leadName, stage, ownerName, ownerEmail string
		var nextContact time.Time

		if err := rows.Scan(&leadName, &stage, &nextContact, &ownerName, &ownerEmail); err != nil {
			log.Printf("⚠️ Erro ao escanear contato atrasado: %v", err)
			continue
		}

		when := nextContact.Format("02/01/2006 15:04")
		if err := w.sender.SendContactReminder(ownerEmail, ownerName, leadName, stage, when); err != nil {
			log.Printf("⚠️ Falha ao enviar lembrete para %s: %v", ownerEmail, err)
			continue
		}
		sent++
	}

	if sent > 0 {
		log.Printf("✅ %d lembrete(s) de contato enviados", sent)
	}
}
