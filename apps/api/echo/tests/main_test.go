package tests

import (
	"fmt"
	"os"
	"testing"

	"github.com/Sajalaxena/edu-Darshi-sub000/core/auth"
)

func TestMain(m *testing.M) {
	var err error
	adminHash, err = auth.HashPassword(adminPassword)
	if err != nil {
		fmt.Printf("auth.HashPassword(): %v", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}
