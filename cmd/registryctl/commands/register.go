package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chainregistry/internal/registration"
)

func registerCmd() *cobra.Command {
	var (
		req        registration.RegisterUserRequest
		aadharPath string
		panPath    string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Stage identity documents, sign the attestation and register the user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var err error
			if req.Aadhar, err = os.ReadFile(aadharPath); err != nil {
				return err
			}
			if req.PAN, err = os.ReadFile(panPath); err != nil {
				return err
			}
			if err := connect(cmd.Context(), out); err != nil {
				return err
			}

			res, err := appCtx.Registration.RegisterUser(cmd.Context(), req)
			if res != nil {
				if res.AadharHash != "" {
					fmt.Fprintf(out, "aadhar: %s\npan:    %s\n", res.AadharHash, res.PANHash)
				}
				if res.Attestation.Signature != "" {
					fmt.Fprintf(out, "signed: %q\n", res.Attestation.Message)
				}
				if res.Record != nil && res.Record.LedgerTxID != "" {
					fmt.Fprintf(out, "tx:     %s\n", res.Record.LedgerTxID)
				}
			}
			return report(out, err)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "full name")
	f.IntVar(&req.Age, "age", 0, "age in years")
	f.StringVar(&req.City, "city", "", "city")
	f.StringVar(&req.Phone, "phone", "", "phone number")
	f.StringVar(&req.Email, "email", "", "email address")
	f.StringVar(&aadharPath, "aadhar", "", "path to the aadhar document (image or PDF)")
	f.StringVar(&panPath, "pan", "", "path to the PAN document (image or PDF)")
	for _, name := range []string{"name", "age", "city", "phone", "email", "aadhar", "pan"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func addLandCmd() *cobra.Command {
	var req registration.AddLandRequest
	cmd := &cobra.Command{
		Use:   "add-land",
		Short: "Submit a land record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if err := connect(cmd.Context(), out); err != nil {
				return err
			}
			rec, err := appCtx.Registration.AddLand(cmd.Context(), req)
			if rec != nil && rec.LedgerTxID != "" {
				fmt.Fprintf(out, "tx: %s\n", rec.LedgerTxID)
			}
			return report(out, err)
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&req.Coordinates, "coord", nil, "boundary coordinate (repeatable)")
	f.StringVar(&req.Area, "area", "", "area in square units")
	f.StringVar(&req.Address, "address", "", "postal address")
	f.StringVar(&req.Price, "price", "", "price")
	f.StringVar(&req.ParcelID, "parcel-id", "", "parcel id")
	f.StringVar(&req.SurveyNumber, "survey-number", "", "survey number")
	f.StringVar(&req.LandType, "land-type", "", "land type")
	for _, name := range []string{"coord", "area", "address", "price", "parcel-id", "survey-number", "land-type"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
