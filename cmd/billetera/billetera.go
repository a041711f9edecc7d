// Package billeteracmder
package billeteracmder

import (
	"github.com/spf13/cobra"

	admincmder "github.com/papercomputeco/billetera/cmd/billetera/admin"
	chatcmder "github.com/papercomputeco/billetera/cmd/billetera/chat"
	configcmder "github.com/papercomputeco/billetera/cmd/billetera/config"
	historycmder "github.com/papercomputeco/billetera/cmd/billetera/history"
	logincmder "github.com/papercomputeco/billetera/cmd/billetera/login"
	passwordcmder "github.com/papercomputeco/billetera/cmd/billetera/password"
	profilecmder "github.com/papercomputeco/billetera/cmd/billetera/profile"
	redeemcmder "github.com/papercomputeco/billetera/cmd/billetera/redeem"
	replaycmder "github.com/papercomputeco/billetera/cmd/billetera/replay"
	transfercmder "github.com/papercomputeco/billetera/cmd/billetera/transfer"
	versioncmder "github.com/papercomputeco/billetera/cmd/version"
)

const billeteraLongDesc string = `Billetera is a terminal client for the digital wallet.

Sign in and manage the wallet:
  billetera login            Start a session
  billetera profile          Balance and linked RFID cards
  billetera history          Transaction history
  billetera transfer         Send money to another holder
  billetera redeem           Redeem a top-up card

Ask the financial assistant:
  billetera chat             Streamed answers, plain or full-screen (--tui)
  billetera replay           Serve a recorded answer for offline testing`

const billeteraShortDesc string = "Billetera - digital wallet client"

func NewBilleteraCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "billetera",
		Short:         billeteraShortDesc,
		Long:          billeteraLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .billetera/ config directory")

	cmd.AddCommand(logincmder.NewLoginCmd())
	cmd.AddCommand(logincmder.NewLogoutCmd())
	cmd.AddCommand(profilecmder.NewProfileCmd())
	cmd.AddCommand(historycmder.NewHistoryCmd())
	cmd.AddCommand(transfercmder.NewTransferCmd())
	cmd.AddCommand(redeemcmder.NewRedeemCmd())
	cmd.AddCommand(passwordcmder.NewPasswordCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(admincmder.NewAdminCmd())
	cmd.AddCommand(replaycmder.NewReplayCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
