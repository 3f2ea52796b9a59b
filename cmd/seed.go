package cmd

import (
	"errors"
	"fmt"
	"time"

	"boleteria/application/events"
	"boleteria/application/tickets/domain"
	"boleteria/application/users"
	"boleteria/common"

	"github.com/guregu/null/v5"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo events and a demo ticket batch",
	RunE:  runSeed,
}

var seedFlags struct {
	tickets     int
	batchSize   int
	sellerEmail string
}

func init() {
	f := seedCmd.Flags()
	f.IntVar(&seedFlags.tickets, "tickets", 1000, "tickets to issue across the demo events")
	f.IntVar(&seedFlags.batchSize, "batch", 100, "tickets issued per call")
	f.StringVar(&seedFlags.sellerEmail, "seller", "", "email of the user credited with the sales")
}

var demoEvents = []events.EventInput{
	{Name: "Festival Estéreo Picnic", Description: "Tres días de música en vivo", Venue: "Parque Simón Bolívar", Capacity: 5000},
	{Name: "Noche de Jazz", Description: "Cuarteto invitado", Venue: "Teatro Colón", Capacity: 800},
	{Name: "Concierto de Salsa", Description: "Orquesta completa", Venue: "Coliseo El Campín", Capacity: 2000},
}

var (
	demoClasses  = []string{"General", "Preferencial", "VIP"}
	demoPrices   = []string{"80000.00", "150000.00", "320000.00"}
	demoPayments = []string{"Efectivo", "Tarjeta", "Transferencia", "Nequi"}
	demoStages   = []string{"Preventa", "Venta General", "Taquilla"}
	demoBuyers   = []string{"Ana Ruiz", "Bruno Díaz", "Carla Mora", "Diego Torres", "Elena Castro", "Felipe Rojas"}
)

func runSeed(cmd *cobra.Command, args []string) error {
	if seedFlags.tickets < 0 || seedFlags.batchSize < 1 {
		return fmt.Errorf("%w: tickets must be >= 0 and batch >= 1", common.ErrInvalidArgument)
	}

	ctx := cmd.Context()
	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	var sellerID *uint
	if seedFlags.sellerEmail != "" {
		seller, err := users.NewRepository(app.DB).FindByEmail(ctx, seedFlags.sellerEmail)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("seller %s: %w", seedFlags.sellerEmail, err)
			}
			return err
		}
		sellerID = &seller.ID
	}

	eventSvc := app.Events()
	start := app.Clock.Now().AddDate(0, 1, 0).Truncate(24 * time.Hour)
	created := make([]*common.Event, 0, len(demoEvents))
	for i, input := range demoEvents {
		input.Date = start.AddDate(0, 0, 7*i).Add(20 * time.Hour)
		event, err := eventSvc.Create(ctx, input)
		if err != nil {
			return err
		}
		created = append(created, event)
	}
	logger.Info("demo events created", zap.Int("count", len(created)))

	ticketSvc := app.Tickets()
	issued := 0
	for batch := 0; issued < seedFlags.tickets; batch++ {
		quantity := min(seedFlags.batchSize, seedFlags.tickets-issued)
		class := batch % len(demoClasses)
		template := domain.TicketInput{
			BuyerName:           demoBuyers[batch%len(demoBuyers)],
			BuyerIdentification: fmt.Sprintf("%010d", 1000000000+batch%len(demoBuyers)),
			BuyerEmail:          fmt.Sprintf("comprador%d@example.com", batch%len(demoBuyers)),
			BuyerPhone:          fmt.Sprintf("310555%04d", batch),
			BuyerAge:            18 + batch%50,
			TotalPrice:          decimal.RequireFromString(demoPrices[class]),
			PaymentMethod:       demoPayments[batch%len(demoPayments)],
			SaleStage:           demoStages[batch%len(demoStages)],
			Class:               demoClasses[class],
			EventID:             &created[batch%len(created)].ID,
			SellerID:            sellerID,
		}
		if template.PaymentMethod != "Efectivo" {
			template.TransactionNumber = null.StringFrom(fmt.Sprintf("TX-%06d", batch))
		}

		tickets, err := ticketSvc.CreateTickets(ctx, template, quantity)
		if err != nil {
			return fmt.Errorf("batch %d: %w", batch, err)
		}
		issued += len(tickets)
	}

	logger.Info("demo tickets issued", zap.Int("count", issued))
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d events and %d tickets\n", len(created), issued)
	return nil
}
