package campaignservice

import (
	"log/slog"

	httpadapter "funded/contexts/fundraising/campaign-service/adapters/http"
	"funded/contexts/fundraising/campaign-service/adapters/memory"
	"funded/contexts/fundraising/campaign-service/application/commands"
	"funded/contexts/fundraising/campaign-service/application/queries"
	"funded/contexts/fundraising/campaign-service/domain/entities"
	"funded/contexts/fundraising/campaign-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Stats   queries.FundraisingStatsUseCase
	Store   *memory.Store
	Gateway *memory.CheckoutGateway
}

type Dependencies struct {
	Campaigns   ports.CampaignRepository
	Donations   ports.DonationRepository
	Ledger      ports.PaymentLedger
	Gateway     ports.CheckoutGateway
	Verifier    ports.WebhookVerifier
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createCampaign := commands.CreateCampaignUseCase{
		Campaigns:   deps.Campaigns,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	updateCampaign := commands.UpdateCampaignUseCase{
		Campaigns: deps.Campaigns,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	changeStatus := commands.ChangeCampaignStatusUseCase{
		Campaigns: deps.Campaigns,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	startCheckout := commands.StartCheckoutUseCase{
		Campaigns:   deps.Campaigns,
		Donations:   deps.Donations,
		Gateway:     deps.Gateway,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	reconcilePayment := commands.ReconcilePaymentUseCase{
		Verifier: deps.Verifier,
		Ledger:   deps.Ledger,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateCampaign:   createCampaign,
			UpdateCampaign:   updateCampaign,
			ChangeStatus:     changeStatus,
			StartCheckout:    startCheckout,
			ReconcilePayment: reconcilePayment,
			ListCampaigns: queries.ListCampaignsUseCase{
				Campaigns: deps.Campaigns,
				Logger:    deps.Logger,
			},
			GetCampaign: queries.GetCampaignUseCase{
				Campaigns: deps.Campaigns,
				Donations: deps.Donations,
				Logger:    deps.Logger,
			},
			ListMyCampaigns: queries.ListMyCampaignsUseCase{
				Campaigns: deps.Campaigns,
				Logger:    deps.Logger,
			},
			ListMyDonations: queries.ListMyDonationsUseCase{
				Donations: deps.Donations,
				Logger:    deps.Logger,
			},
			GetDonationStatus: queries.GetDonationStatusUseCase{
				Donations: deps.Donations,
				Logger:    deps.Logger,
			},
			Logger: deps.Logger,
		},
		Stats: queries.FundraisingStatsUseCase{
			Campaigns: deps.Campaigns,
			Donations: deps.Donations,
		},
	}
}

// NewInMemoryModule wires the memory store and the sandbox checkout gateway.
// A nil verifier leaves the webhook endpoint refusing every delivery.
func NewInMemoryModule(seed []entities.Campaign, verifier ports.WebhookVerifier, logger *slog.Logger) Module {
	store := memory.NewStore(seed, logger)
	gateway := memory.NewCheckoutGateway()
	module := NewModule(Dependencies{
		Campaigns:   store,
		Donations:   store,
		Ledger:      store,
		Gateway:     gateway,
		Verifier:    verifier,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	module.Gateway = gateway
	return module
}
